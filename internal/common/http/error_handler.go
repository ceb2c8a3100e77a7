package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pmorel/tasklane/internal/common/constants"
	commonerrors "github.com/pmorel/tasklane/internal/common/errors"
	"github.com/pmorel/tasklane/internal/common/httpmetrics"
	"github.com/pmorel/tasklane/internal/common/logger"
	"github.com/pmorel/tasklane/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

// HandleError maps a service error to an HTTP response. Domain errors carry
// their own status and safe message; anything else is logged and reported as an
// opaque 500 so store internals never reach the client.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID := getTraceIDFromContext(ctx)

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr, traceID)
		return
	}

	logFields := logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}
	if traceID != "" {
		logFields["trace_id"] = traceID
		w.Header().Set("X-Trace-ID", traceID)
	}

	h.log.WithFields(ctx, logFields).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteError(w, http.StatusInternalServerError, "internal server error")
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError, traceID string) {
	ctx := r.Context()
	status := err.HTTPStatus()

	logFields := logger.Fields{
		"error_code": err.Code(),
		"category":   string(err.Category()),
		"status":     status,
		"action":     "domain_error",
	}
	if traceID != "" {
		logFields["trace_id"] = traceID
		w.Header().Set("X-Trace-ID", traceID)
	}

	if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logFields).Debugf("domain error: %s", err.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(err.Category()),
		err.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, status, err.Code(), err.Message(), nil, traceID)
}

func getTraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	traceID, ok := ctx.Value(constants.TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
