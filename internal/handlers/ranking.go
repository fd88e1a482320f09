package handlers

import (
	"net/http"
	"strconv"
	"time"

	"isitjustme/internal/utils"

	"github.com/gin-gonic/gin"
)

// HotScore 计算给定票数与发布时间的热度值
func HotScore(c *gin.Context) {
	up, err := strconv.Atoi(c.DefaultQuery("upvotes", "0"))
	if err != nil || up < 0 {
		badRequest(c, "upvotes must be a non-negative integer")
		return
	}
	down, err := strconv.Atoi(c.DefaultQuery("downvotes", "0"))
	if err != nil || down < 0 {
		badRequest(c, "downvotes must be a non-negative integer")
		return
	}
	createdAt, err := time.Parse(time.RFC3339, c.Query("createdAt"))
	if err != nil {
		badRequest(c, "createdAt must be an RFC3339 timestamp")
		return
	}

	c.JSON(http.StatusOK, gin.H{"hotScore": utils.HotScore(up, down, createdAt)})
}
