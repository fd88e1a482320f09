package handlers

import (
	"net/http"

	"isitjustme/internal/middleware"
	"isitjustme/internal/models"
	"isitjustme/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

type voteBody struct {
	Value       int    `json:"value" binding:"required,oneof=1 -1"`
	AnonymousID string `json:"anonymousId" binding:"max=255"`
}

// voter 从 session 与请求中解析投票身份，匿名 ID 优先
func voter(c *gin.Context, anonymousID string) (services.VoterIdentity, error) {
	userID, _ := middleware.CurrentUserID(c)
	return services.ResolveIdentity(userID, anonymousID)
}

func voteTarget(c *gin.Context) (models.TargetKind, uint, bool) {
	kind := models.TargetKind(c.Param("type"))
	if !kind.Valid() {
		badRequest(c, "type must be post or comment")
		return "", 0, false
	}
	id, ok := pathID(c, "id")
	return kind, id, ok
}

// Vote 投票：相同方向再次投票为取消，反方向为改票
func (h *VoteHandler) Vote(c *gin.Context) {
	kind, id, ok := voteTarget(c)
	if !ok {
		return
	}

	var body voteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "value must be 1 or -1")
		return
	}

	identity, err := voter(c, body.AnonymousID)
	if err != nil {
		RenderError(c, err)
		return
	}

	result, err := h.votes.CastVote(c.Request.Context(), services.VoteRequest{
		TargetKind: kind,
		TargetID:   id,
		Value:      body.Value,
		Voter:      identity,
	})
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Current returns the caller's ballot on the target.
func (h *VoteHandler) Current(c *gin.Context) {
	kind, id, ok := voteTarget(c)
	if !ok {
		return
	}

	identity, err := voter(c, c.Query("anonymousId"))
	if err != nil {
		RenderError(c, err)
		return
	}

	value, err := h.votes.GetVote(c.Request.Context(), kind, id, identity)
	if err != nil {
		RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"value": value})
}
