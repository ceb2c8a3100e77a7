package http

import (
	"net/http"

	"github.com/pmorel/tasklane/internal/common/constants"
	"github.com/pmorel/tasklane/internal/common/logger"
)

// BuildBaseHandler wraps the outermost middleware. Per-area request metrics
// are attached closer to the handlers so auth and task traffic stay separate.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware

	return securityHeaders(recovery(traceID(maxRequestSize(handler))))
}
