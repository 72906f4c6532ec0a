package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/sajjaddev-web/desk/pkg/errors"
)

// Envelope is the base payload returned by every endpoint: Error reports
// whether the request failed, Data carries either the result or the
// error details.
type Envelope struct {
	Error bool        `json:"error"`
	Data  interface{} `json:"data,omitempty"`
}

// ErrorInfo holds the client-facing error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a JSON success envelope with the given status code.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Envelope{
		Error: false,
		Data:  data,
	})
}

// Error writes a JSON error envelope derived from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, Envelope{
		Error: true,
		Data: ErrorInfo{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
	})
}
