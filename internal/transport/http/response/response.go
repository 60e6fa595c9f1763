// Package response fixes the wire shape of every reply. Successes return
// the payload directly; failures return {"detail": message} under the real
// HTTP status. The 400/401/403/404/500 taxonomy is the API contract.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the uniform error payload. Detail carries a localized,
// user-facing message.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Detail is the success payload for operations that return only a message.
type Detail struct {
	Detail string `json:"detail"`
}

func OK(c *gin.Context, data any)      { c.JSON(http.StatusOK, data) }
func Created(c *gin.Context, data any) { c.JSON(http.StatusCreated, data) }

func Message(c *gin.Context, detail string) { c.JSON(http.StatusOK, Detail{Detail: detail}) }

// Fail writes the error body and aborts the handler chain.
func Fail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorBody{Detail: detail})
}

func BadRequest(c *gin.Context, detail string)   { Fail(c, http.StatusBadRequest, detail) }
func Unauthorized(c *gin.Context, detail string) { Fail(c, http.StatusUnauthorized, detail) }
func Forbidden(c *gin.Context, detail string)    { Fail(c, http.StatusForbidden, detail) }
func NotFound(c *gin.Context, detail string)     { Fail(c, http.StatusNotFound, detail) }
func Internal(c *gin.Context, detail string)     { Fail(c, http.StatusInternalServerError, detail) }
