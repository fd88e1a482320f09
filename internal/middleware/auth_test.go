package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"isitjustme/internal/config"
	"isitjustme/internal/db"
	"isitjustme/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conn, err := db.Open(&config.Config{DBDriver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	users := services.NewUserService(conn)
	alice, err := users.Create(t.Context(), "alice")
	require.NoError(t, err)
	auth := NewSessionAuth(users)

	r := gin.New()
	r.Use(sessions.Sessions("test", cookie.NewStore([]byte("test-secret"))))
	r.POST("/login/:id", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
		require.NoError(t, Login(c, uint(id)))
		c.Status(http.StatusOK)
	})
	r.GET("/me", auth.LoadUser(), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, "%d:%s", id, c.GetString(UsernameKey))
	})
	r.GET("/private", auth.LoadUser(), AuthRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	get := func(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	login := func(id uint) []*http.Cookie {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login/"+strconv.FormatUint(uint64(id), 10), nil))
		require.Equal(t, http.StatusOK, w.Code)
		return w.Result().Cookies()
	}

	assert.Equal(t, "anonymous", get("/me", nil).Body.String())
	w := get("/private", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "IDENTITY_REQUIRED")

	cookies := login(alice.ID)
	assert.Equal(t, strconv.FormatUint(uint64(alice.ID), 10)+":alice", get("/me", cookies).Body.String())
	assert.Equal(t, http.StatusOK, get("/private", cookies).Code)

	// a session for a user that no longer exists is treated as anonymous
	ghost := login(alice.ID + 100)
	assert.Equal(t, "anonymous", get("/me", ghost).Body.String())
	assert.Equal(t, http.StatusUnauthorized, get("/private", ghost).Code)
}
