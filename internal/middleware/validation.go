package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/skillswap/internal/app/models/dto"
)

// BindJSON binds and validates the request body into obj. On failure it
// writes a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// UUIDParam parses a path parameter as a uuid. On failure it writes a 400
// response and returns false.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	return UUIDField(c, c.Param(name), name)
}

// UUIDField parses a request value as a uuid, reporting field on failure.
func UUIDField(c *gin.Context, value, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+field).WithField(field)))
		return uuid.Nil, false
	}
	return id, true
}
