package jwtverify

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the signed payload of a session token. The user id is
// carried both in the registered "sub" claim and in "subject".
type SessionClaims struct {
	UserID   string `json:"subject"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Claims is what downstream handlers see after a token has been verified.
type Claims struct {
	UserID    string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func NewSessionClaims(userID, username string, issuedAt, expiresAt time.Time) SessionClaims {
	return SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}
