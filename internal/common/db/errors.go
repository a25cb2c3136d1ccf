package db

import (
	"fmt"
	"time"

	"github.com/AlibekovAA/user-auth/internal/observability/metrics"
)

// ObserveQuery records the duration of a store operation and, for failures,
// an error sample labelled with the concrete error type.
func ObserveQuery(driver, operation string, startTime time.Time, err error) {
	metrics.DBQueryDurationSeconds.WithLabelValues(driver, operation).Observe(time.Since(startTime).Seconds())
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues(driver, operation, fmt.Sprintf("%T", err)).Inc()
	}
}
