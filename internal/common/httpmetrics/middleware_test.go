package httpmetrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/AlibekovAA/user-auth/internal/observability/metrics"
)

func TestCollector_Wrap(t *testing.T) {
	handler := New().Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	before := testutil.ToFloat64(metrics.AuthRequestsTotal.WithLabelValues(http.MethodPost, "/api/auth/register"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AuthRequestsTotal.WithLabelValues(http.MethodPost, "/api/auth/register")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.AuthRequestsInFlight))
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/auth/register", "/api/auth/register"},
		{"/api/auth/login", "/api/auth/login"},
		{"/api/users/me", "/api/users/me"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"", "other"},
		{"/", "other"},
		{"/x1", "other"},
		{"/api/users/42", "other"},
		{"/api/auth/login/", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.path))
		})
	}
}

func TestCollector_UnknownPathsShareOneLabel(t *testing.T) {
	handler := New().Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	before := testutil.ToFloat64(metrics.AuthRequestsTotal.WithLabelValues(http.MethodGet, "other"))
	series := testutil.CollectAndCount(metrics.AuthRequestsTotal)

	for _, path := range []string{"/x1", "/x2", "/x3"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+3, testutil.ToFloat64(metrics.AuthRequestsTotal.WithLabelValues(http.MethodGet, "other")))
	assert.LessOrEqual(t, testutil.CollectAndCount(metrics.AuthRequestsTotal), series+1)
}
