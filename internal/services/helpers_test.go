package services

import (
	"testing"
	"time"

	"isitjustme/internal/config"
	"isitjustme/internal/db"
	"isitjustme/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(&config.Config{DBDriver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func createUser(t *testing.T, conn *gorm.DB, name string) *models.User {
	t.Helper()
	u := models.User{Username: name}
	require.NoError(t, conn.Create(&u).Error)
	return &u
}

// createPost inserts a post with preset counters. authorID may be nil.
func createPost(t *testing.T, conn *gorm.DB, authorID *uint, up, down int) *models.Post {
	t.Helper()
	p := models.Post{
		AuthorID:  authorID,
		Title:     "post",
		Upvotes:   up,
		Downvotes: down,
		Score:     up - down,
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, conn.Create(&p).Error)
	return &p
}

func createComment(t *testing.T, conn *gorm.DB, postID uint, authorID *uint) *models.Comment {
	t.Helper()
	c := models.Comment{PostID: postID, AuthorID: authorID, Content: "comment"}
	require.NoError(t, conn.Create(&c).Error)
	return &c
}

func reloadPost(t *testing.T, conn *gorm.DB, id uint) models.Post {
	t.Helper()
	var p models.Post
	require.NoError(t, conn.First(&p, id).Error)
	return p
}

func reloadComment(t *testing.T, conn *gorm.DB, id uint) models.Comment {
	t.Helper()
	var c models.Comment
	require.NoError(t, conn.First(&c, id).Error)
	return c
}

func userKarma(t *testing.T, conn *gorm.DB, id uint) int {
	t.Helper()
	var u models.User
	require.NoError(t, conn.First(&u, id).Error)
	return u.Karma
}

func countRows(t *testing.T, conn *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(model).Count(&n).Error)
	return n
}

func uintPtr(v uint) *uint { return &v }
