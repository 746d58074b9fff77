// Package response writes JSON error bodies for the HTTP API.
package response

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/todo-server/internal/apierrors"
	"github.com/dtroode/todo-server/internal/logger"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Code    apierrors.Code         `json:"code"`
	Message string                 `json:"message"`
	Errors  []apierrors.FieldError `json:"errors,omitempty"`
	Detail  string                 `json:"detail,omitempty"`
}

// ErrorWriter translates errors into HTTP responses. Errors that are not
// *apierrors.APIError become 500 internal errors.
type ErrorWriter struct {
	logger      *logger.Logger
	development bool
}

// NewErrorWriter creates an ErrorWriter. In development mode the error cause
// is included in the response body as "detail".
func NewErrorWriter(logger *logger.Logger, development bool) *ErrorWriter {
	return &ErrorWriter{logger: logger, development: development}
}

// Abort writes err to the client and stops the gin handler chain.
func (w *ErrorWriter) Abort(c *gin.Context, err error) {
	apiErr, ok := apierrors.As(err)
	if !ok {
		apiErr = apierrors.NewErrInternalServerError(err)
	}

	if apiErr.HTTPStatus >= 500 {
		w.logger.Error("HTTP: request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err.Error())
	}

	c.AbortWithStatusJSON(apiErr.HTTPStatus, w.body(apiErr))
}

func (w *ErrorWriter) body(apiErr *apierrors.APIError) ErrorBody {
	body := ErrorBody{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Errors:  apiErr.Fields,
	}
	if w.development && apiErr.Cause != nil {
		body.Detail = apiErr.Cause.Error()
	}
	return body
}
