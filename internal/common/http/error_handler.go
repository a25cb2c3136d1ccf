package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/user-auth/internal/common/errors"
	"github.com/AlibekovAA/user-auth/internal/common/httpmetrics"
	"github.com/AlibekovAA/user-auth/internal/common/logger"
	"github.com/AlibekovAA/user-auth/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	if _, ok := AsMaxBytesError(err); ok {
		h.write(w, r, http.StatusRequestEntityTooLarge, CodeRequestTooLarge, "request body too large", nil)
		return
	}

	ctx := r.Context()
	h.log.WithFields(ctx, logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	h.write(w, r, http.StatusInternalServerError, CodeUnknown, "internal server error", nil)
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError) {
	status := err.HTTPStatus()

	logFields := logger.Fields{
		"error_code": err.Code(),
		"category":   string(err.Category()),
		"status":     status,
		"action":     "domain_error",
	}

	if status >= http.StatusInternalServerError {
		h.log.WithFields(r.Context(), logFields).Errorf("domain error: %s", err.Error())
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(r.Context(), logFields).Debugf("domain error: %s", err.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(err.Category()),
		err.Code(),
		strconv.Itoa(status),
	).Inc()

	h.write(w, r, status, err.Code(), err.Message(), err.Details())
}

func (h *ErrorHandler) write(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, status, code, message, details, TraceIDFromContext(r.Context()))
}
