package service

import (
	"github.com/AlibekovAA/user-auth/internal/observability/metrics"
)

func incrementSessionTokensIssued() {
	metrics.SessionTokensIssued.Inc()
}

func recordRegistration(result string) {
	metrics.RegistrationsTotal.WithLabelValues(result).Inc()
}

func recordLogin(result string) {
	metrics.LoginsTotal.WithLabelValues(result).Inc()
}
