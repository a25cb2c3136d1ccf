package jwtverify

import (
	"context"
	"net/http"

	commonerrors "github.com/AlibekovAA/user-auth/internal/common/errors"
	commonhttp "github.com/AlibekovAA/user-auth/internal/common/http"
	"github.com/AlibekovAA/user-auth/internal/common/logger"
	"github.com/AlibekovAA/user-auth/internal/observability/metrics"
)

type contextKey string

const claimsKey contextKey = "jwt_claims"

// Middleware admits a request only when its Authorization header carries a
// valid session token. A missing header is a 400, anything else that fails
// verification is a 401.
func Middleware(verifier *Verifier, log *logger.Logger) func(next http.Handler) http.Handler {
	errorHandler := commonhttp.NewErrorHandler(log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "jwt_missing_authorization",
				}).Warn("jwt auth failed: no token provided")
				metrics.JWTValidationsFailed.WithLabelValues("missing").Inc()
				errorHandler.HandleError(w, r, commonerrors.ErrMissingAuthorization)
				return
			}

			metrics.JWTValidationsTotal.Inc()
			claims, err := verifier.Verify(raw)
			if err != nil {
				reason := failureReason(err)
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"reason": reason,
					"action": "jwt_invalid_token",
				}).Warnf("jwt auth failed: %v", err)
				metrics.JWTValidationsFailed.WithLabelValues(reason).Inc()
				errorHandler.HandleError(w, r, commonerrors.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	val := ctx.Value(claimsKey)
	claims, ok := val.(Claims)
	return claims, ok
}
