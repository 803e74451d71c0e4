package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logger"
	usersvc "storefront/internal/service/user"
)

func errorBody(c *gin.Context, message string) gin.H {
	body := gin.H{"success": false, "message": message}
	if id := logger.RequestIDFrom(c); id != "" {
		body["requestId"] = id
	}
	return body
}

// respondError maps service errors onto status codes. Unknown errors are logged and hidden.
func respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		respondValidation(c, []fieldError{{Field: ve.Field, Message: ve.Message}})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody(c, "resource not found"))
	case errors.Is(err, usersvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorBody(c, "invalid email or password"))
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, errorBody(c, "resource already exists"))
	default:
		_ = c.Error(err)
		logger.FromGin(c).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody(c, "internal server error"))
	}
}

// respondBindError reports a request body that failed to decode or validate.
func respondBindError(c *gin.Context, err error) {
	respondValidation(c, bindingDetails(err))
}

func respondValidation(c *gin.Context, details []fieldError) {
	body := errorBody(c, "Request validation failed")
	body["errors"] = details
	c.JSON(http.StatusBadRequest, body)
}

// pathID parses a positive integer path parameter, responding 400 when it is not one.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondValidation(c, []fieldError{{Field: name, Message: "Must be a positive integer"}})
		return 0, false
	}
	return id, true
}
