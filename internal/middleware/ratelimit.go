package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"isitjustme/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter per caller kept in Redis.
type RateLimiter struct {
	rdb      *redis.Client
	resource string
	limit    int
	window   time.Duration
}

func NewRateLimiter(rdb *redis.Client, resource string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, resource: resource, limit: limit, window: window}
}

// Allow counts one hit for id and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, id string) (bool, error) {
	key := fmt.Sprintf("rl:%s:%s", l.resource, id)

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		// 窗口内第一次计数时设置过期
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(l.limit), nil
}

// Middleware keys by signed-in user, else by client IP. When Redis is
// unreachable requests pass through.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := "ip:" + c.ClientIP()
		if userID, ok := CurrentUserID(c); ok {
			id = "user:" + strconv.FormatUint(uint64(userID), 10)
		}

		allowed, err := l.Allow(c.Request.Context(), id)
		if err != nil {
			log.Printf("rate limit %s unavailable, allowing: %v", l.resource, err)
			c.Next()
			return
		}
		if !allowed {
			appErr := models.NewRateLimitedError()
			c.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{Error: appErr.Message, Code: appErr.Code})
			return
		}
		c.Next()
	}
}
