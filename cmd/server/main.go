package main

import (
	"log"

	"isitjustme/internal/config"
	"isitjustme/internal/db"
	"isitjustme/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Database
	conn := db.Init(cfg)

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		log.Printf("Vote rate limit: %d per minute", cfg.VoteRateLimit)
	}

	r := router.New(conn, rdb, cfg)

	log.Printf("IsItJustMe server starting on :%s (%s, %s)", cfg.Port, cfg.Env, cfg.DBDriver)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
