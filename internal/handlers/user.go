package handlers

import (
	"net/http"

	"isitjustme/internal/services"
	"isitjustme/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.UserService
	karma *services.KarmaService
}

func NewUserHandler(users *services.UserService, karma *services.KarmaService) *UserHandler {
	return &UserHandler{users: users, karma: karma}
}

// Karma 按已发布内容的实时得分汇总
func (h *UserHandler) Karma(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	karma, err := h.karma.GetKarma(c.Request.Context(), userID)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, karma)
}

// KarmaLogs returns the cached total and the latest karma changes.
func (h *UserHandler) KarmaLogs(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		RenderError(c, err)
		return
	}

	logs, err := h.karma.History(c.Request.Context(), userID, utils.StringToInt(c.Query("limit"), 20))
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"karma": user.Karma,
		"logs":  logs,
	})
}
