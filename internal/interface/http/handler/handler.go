// Package handler holds the gin handlers of the booknotes API.
package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/booknotes/pkg/errors"
	"github.com/xiebiao/booknotes/pkg/response"
	"github.com/xiebiao/booknotes/pkg/validate"
)

// bindError replies with the binding failure
func bindError(c *gin.Context, err error) {
	response.ErrorWithCode(c, apperrors.ErrCodeBindError, "malformed request: "+err.Error())
}

// pathID parses the :id path parameter, replying on failure
func pathID(c *gin.Context) (uint, bool) {
	id, err := validate.ID("id", c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return 0, false
	}
	return id, true
}
