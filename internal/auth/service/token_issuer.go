package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/user-auth/internal/common/clock"
	"github.com/AlibekovAA/user-auth/internal/common/jwtverify"
	userdomain "github.com/AlibekovAA/user-auth/internal/user/domain"
)

type Issuer interface {
	Issue(user userdomain.User) (string, error)
}

type TokenIssuer struct {
	jwtSecret []byte
	clock     clock.Clock
	tokenTTL  time.Duration
}

var _ Issuer = (*TokenIssuer)(nil)

func NewTokenIssuer(jwtSecret string, tokenTTL time.Duration, clock clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret: []byte(jwtSecret),
		clock:     clock,
		tokenTTL:  tokenTTL,
	}
}

// Issue signs an HS256 session token for user that expires tokenTTL after
// issuance.
func (ti *TokenIssuer) Issue(user userdomain.User) (string, error) {
	now := ti.clock.Now()
	claims := jwtverify.NewSessionClaims(string(user.ID), user.Username, now, now.Add(ti.tokenTTL))

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	incrementSessionTokensIssued()
	return tokenString, nil
}
