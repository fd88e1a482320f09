package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"isitjustme/internal/models"
	"isitjustme/internal/services"
	"isitjustme/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	SessionUserKey = "user_id" // session 中保存的用户 ID
	UserIDKey      = "user_id" // gin context 中的当前用户 ID (uint)
	UsernameKey    = "username"
)

// SessionAuth resolves the session cookie to a registered user. Lookups are
// cached briefly so voting bursts do not hit the users table on every request.
type SessionAuth struct {
	users *services.UserService
	known *utils.TTLCache[uint, string]
}

func NewSessionAuth(users *services.UserService) *SessionAuth {
	known, err := utils.NewTTLCache[uint, string](1000, time.Minute)
	if err != nil {
		log.Fatalf("Failed to create session cache: %v", err)
	}
	return &SessionAuth{users: users, known: known}
}

// LoadUser retrieves user from session and sets its id to context.
// A session pointing at a deleted user is cleared.
func (a *SessionAuth) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserKey).(uint)
		if !ok || userID == 0 {
			c.Next()
			return
		}

		if name, hit := a.known.Get(userID); hit {
			c.Set(UserIDKey, userID)
			c.Set(UsernameKey, name)
			c.Next()
			return
		}

		user, err := a.users.Get(c.Request.Context(), userID)
		switch {
		case err == nil:
			a.known.Set(user.ID, user.Username)
			c.Set(UserIDKey, user.ID)
			c.Set(UsernameKey, user.Username)
		case models.ErrorCode(err) == models.CodeNotFound:
			session.Delete(SessionUserKey)
			if err := session.Save(); err != nil {
				log.Printf("clear stale session: %v", err)
			}
		default:
			// 数据库异常时按匿名处理，不阻塞请求
			log.Printf("load session user %d: %v", userID, err)
		}
		c.Next()
	}
}

// Forget drops a cached user so the next request re-reads it.
func (a *SessionAuth) Forget(userID uint) {
	a.known.Delete(userID)
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			appErr := models.NewIdentityRequiredError()
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: appErr.Message, Code: appErr.Code})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the logged-in user's id, if any.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// Login 写入 session
func Login(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Set(SessionUserKey, userID)
	if err := session.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
