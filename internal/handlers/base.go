package handlers

import (
	"errors"
	"log"
	"net/http"

	"isitjustme/internal/models"
	"isitjustme/internal/utils"

	"github.com/gin-gonic/gin"
)

// statusFor 将错误码映射为 HTTP 状态码
func statusFor(code string) int {
	switch code {
	case models.CodeValidation:
		return http.StatusBadRequest
	case models.CodeIdentityRequired:
		return http.StatusUnauthorized
	case models.CodeForbidden:
		return http.StatusForbidden
	case models.CodeNotFound, models.CodeTargetNotFound:
		return http.StatusNotFound
	case models.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RenderError writes err as {"error","code"}. Internal causes are logged and
// never sent to the client.
func RenderError(c *gin.Context, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}

	status := statusFor(appErr.Code)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: appErr.Message, Code: appErr.Code})
}

func badRequest(c *gin.Context, message string) {
	RenderError(c, models.NewValidationError(message))
}

// pathID parses a positive id path parameter, writing a 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		badRequest(c, "Invalid "+name)
	}
	return id, ok
}
