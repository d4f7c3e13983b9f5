package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pathwise-server/services/guidance-api/internal/domain/agent"
	"pathwise-server/services/guidance-api/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code          string `json:"code,omitempty"` // UUID from PlatformError
	Error         string `json:"error"`
	Detail        string `json:"detail,omitempty"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// HandleError maps domain and upstream errors to HTTP responses. Upstream
// backend failures forward the backend's status when it answered with one,
// else a generic gateway failure; platform errors map through their type.
// Everything else is a plain 500 with no internal detail leaked.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var backendErr *agent.BackendError
	if errors.As(err, &backendErr) {
		status := backendErr.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		reqCtx.AbortWithStatusJSON(status, ErrorResponse{
			Error:         message,
			Detail:        backendErr.Detail,
			ErrorInstance: backendErr,
		})
		return
	}

	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Code:          domainErr.GetUUID(),
			Error:         domainErr.Message,
			ErrorInstance: domainErr,
			RequestID:     domainErr.GetRequestID(),
		})
		return
	}

	// Non-platform errors
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:         message,
		ErrorInstance: err,
	})
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil, uuid)

	statusCode := platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType())

	reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
		Code:          err.GetUUID(),
		Error:         message,
		ErrorInstance: err,
		RequestID:     err.GetRequestID(),
	})
}
