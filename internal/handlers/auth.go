package handlers

import (
	"net/http"

	"isitjustme/internal/middleware"
	"isitjustme/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthHandler 开发环境下的会话辅助接口，生产环境不挂载
type AuthHandler struct {
	users *services.UserService
	auth  *middleware.SessionAuth
}

func NewAuthHandler(users *services.UserService, auth *middleware.SessionAuth) *AuthHandler {
	return &AuthHandler{users: users, auth: auth}
}

type registerBody struct {
	Username string `json:"username" binding:"required"`
}

// Register creates a user and logs the session in as it.
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "username is required")
		return
	}

	user, err := h.users.Create(c.Request.Context(), body.Username)
	if err != nil {
		RenderError(c, err)
		return
	}
	if err := middleware.Login(c, user.ID); err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		RenderError(c, err)
		return
	}
	if err := middleware.Login(c, user.ID); err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if id, ok := middleware.CurrentUserID(c); ok {
		h.auth.Forget(id)
	}
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		RenderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
