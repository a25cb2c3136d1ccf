package jwtverify

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/user-auth/internal/common/clock"
	commonerrors "github.com/AlibekovAA/user-auth/internal/common/errors"
)

var errMissingClaims = errors.New("token is missing user claims")

type Verifier struct {
	secret []byte
	clock  clock.Clock
}

func NewVerifier(secret string, clock clock.Clock) *Verifier {
	return &Verifier{secret: []byte(secret), clock: clock}
}

// Verify checks signature, algorithm, expiry and user claims of a raw token.
// A leading "Bearer " is stripped. Every failure is ErrInvalidToken with the
// parser error as cause.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(jwt.ErrTokenMalformed)
	}

	var claims SessionClaims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.clock.Now),
	)
	if err != nil {
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}

	userID := claims.Subject
	if userID == "" {
		userID = claims.UserID
	}
	if userID == "" || claims.Username == "" || claims.IssuedAt == nil {
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(errMissingClaims)
	}

	return Claims{
		UserID:    userID,
		Username:  claims.Username,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// failureReason buckets a verification error for metrics.
func failureReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, errMissingClaims), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "claims"
	default:
		return "invalid"
	}
}
