package router

import (
	"net/http"
	"time"

	"isitjustme/internal/config"
	"isitjustme/internal/handlers"
	"isitjustme/internal/middleware"
	"isitjustme/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const sessionName = "isitjustme_session"

// New builds the engine with sessions, request middleware and all routes.
// rdb may be nil, which disables vote rate limiting.
func New(conn *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 3600,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	RegisterRoutes(r, conn, rdb, cfg)
	return r
}

func RegisterRoutes(r *gin.Engine, conn *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	// Services
	ranking := services.NewRankingService(conn)
	voteService := services.NewVoteService(conn, ranking)
	karmaService := services.NewKarmaService(conn)
	contentService := services.NewContentService(conn)
	userService := services.NewUserService(conn)
	sessionAuth := middleware.NewSessionAuth(userService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, sessionAuth)
	storyHandler := handlers.NewStoryHandler(contentService)
	voteHandler := handlers.NewVoteHandler(voteService)
	userHandler := handlers.NewUserHandler(userService, karmaService)

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var voteLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if rdb != nil {
		voteLimit = middleware.NewRateLimiter(rdb, "vote", cfg.VoteRateLimit, time.Minute).Middleware()
	}

	api := r.Group("/api")
	api.Use(sessionAuth.LoadUser())
	{
		api.POST("/vote/:type/:id", voteLimit, voteHandler.Vote) // 投票 / 取消 / 改票
		api.GET("/vote/:type/:id", voteHandler.Current)          // 当前身份的投票状态

		api.GET("/users/:id/karma", userHandler.Karma)          // 实时 karma 汇总
		api.GET("/users/:id/karma/logs", userHandler.KarmaLogs) // karma 变动明细
		api.GET("/hot-score", handlers.HotScore)                // 热度计算

		api.GET("/posts", storyHandler.List)                        // 帖子列表
		api.POST("/posts", storyHandler.Create)                     // 发帖（可匿名）
		api.POST("/posts/:id/comments", storyHandler.CreateComment) // 评论（可匿名）
		api.POST("/logout", authHandler.Logout)                     // 退出登录
	}

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.DELETE("/posts/:id", storyHandler.Delete)           // 删除帖子
		authorized.DELETE("/comments/:id", storyHandler.DeleteComment) // 删除评论
	}

	// 开发环境会话辅助
	if !cfg.IsProduction() {
		dev := r.Group("/dev")
		dev.Use(sessionAuth.LoadUser())
		{
			dev.POST("/users", authHandler.Register)
			dev.POST("/login/:id", authHandler.Login)
		}
	}
}
