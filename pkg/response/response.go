// Package response writes the uniform JSON envelope {code, message, data}.
//
// Every reply uses HTTP 200; clients branch on code (0 means success).
// Internal causes are logged and never serialized.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

// CodeSuccess is the code of every successful reply
const CodeSuccess = 0

// Response envelope
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success replies with data; a nil data serializes as null
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error replies with the AppError carried by err.
// Server-side failures are logged at ERROR with their cause, client
// errors that carry a cause at WARN.
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	if appErr.Err != nil || appErr.Code >= apperrors.ErrCodeInternal {
		fields := []zap.Field{
			zap.Int("code", appErr.Code),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		}
		if appErr.Code >= apperrors.ErrCodeInternal {
			zap.L().Error(appErr.Message, fields...)
		} else {
			zap.L().Warn(appErr.Message, fields...)
		}
	}

	c.JSON(http.StatusOK, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    nil,
	})
}

// ErrorWithCode replies with an explicit code and message
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// Abort replies with err and stops the handler chain (middleware)
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
