package api

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/videohub/internal/logging"
	"github.com/gin-gonic/gin"
)

// Response is the success envelope.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the failure envelope. Stack carries the error chain and
// is only filled in development.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
	Stack      string   `json:"stack,omitempty"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// fail records err for the error handler and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// errorHandler serializes the last error recorded on the context. It must be
// the first middleware so it sees errors from everything after it.
func errorHandler(logger logging.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		apiErr := toAPIError(err)
		if apiErr.StatusCode >= http.StatusInternalServerError {
			logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
		}

		errs := apiErr.Errors
		if errs == nil {
			errs = []string{}
		}
		resp := ErrorResponse{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Success:    false,
			Errors:     errs,
		}
		if development {
			resp.Stack = err.Error()
		}
		c.JSON(apiErr.StatusCode, resp)
	}
}

// recoverer turns a panic into a 500 for errorHandler to render.
func recoverer() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		fail(c, fmt.Errorf("panic: %v", recovered))
	})
}
