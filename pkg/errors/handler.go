package errors

import (
	"net/http"

	"botflow-backend/pkg/common"

	"go.uber.org/zap"
)

// ErrorHandler converts errors into envelope responses at the HTTP
// boundary. Stack details only leave the process in debug mode.
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		debug:  debug,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if appErr := GetAppError(err); appErr != nil {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}

		h.logger.Warn("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.String("type", string(appErr.Type)),
			zap.Error(err),
		)

		details := appErr.Details
		if h.debug && appErr.StackTrace != "" {
			if details == nil {
				details = make(map[string]interface{})
			}
			details["stackTrace"] = appErr.StackTrace
		}

		common.RespondErrorWithDetails(w, status, appErr.Code, appErr.Message, details)
		return
	}

	h.logger.Error("Unhandled error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	message := "An internal error occurred"
	if h.debug {
		message = err.Error()
	}
	common.RespondError(w, http.StatusInternalServerError, CodeInternalError, message)
}
