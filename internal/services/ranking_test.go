package services

import (
	"context"
	"testing"
	"time"

	"isitjustme/internal/models"
	"isitjustme/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRecompute_UsesPostCreatedAt(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := NewRankingService(conn)
	post := createPost(t, conn, nil, 12, 2)

	var hot float64
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		c, h, err := svc.Recompute(tx, post.ID)
		assert.Equal(t, 10, c.Score)
		hot = h
		return err
	}))

	want := utils.HotScore(12, 2, post.CreatedAt)
	assert.InDelta(t, want, hot, 1e-9)
	assert.InDelta(t, want, reloadPost(t, conn, post.ID).HotScore, 1e-9)
}

func TestRebuild_RestampsAllPosts(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := NewRankingService(conn)

	var posts []*models.Post
	for i := 0; i < 7; i++ {
		p := createPost(t, conn, nil, i*3, i)
		posts = append(posts, p)
	}
	// stale value from an older formula
	require.NoError(t, conn.Model(&models.Post{}).Where("1 = 1").UpdateColumn("hot_score", -1).Error)

	n, err := svc.Rebuild(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	for _, p := range posts {
		stored := reloadPost(t, conn, p.ID)
		assert.InDelta(t, utils.HotScore(p.Upvotes, p.Downvotes, p.CreatedAt), stored.HotScore, 1e-9)
	}
}

func TestRebuild_OrdersByRecencyAndScore(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := NewRankingService(conn)

	older := models.Post{Title: "older", Upvotes: 10, Score: 10, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := models.Post{Title: "newer", Upvotes: 10, Score: 10, CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, conn.Create(&older).Error)
	require.NoError(t, conn.Create(&newer).Error)

	_, err := svc.Rebuild(context.Background(), 0)
	require.NoError(t, err)

	posts, err := NewContentService(conn).ListPosts(context.Background(), SortHot, 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Title)
	assert.Greater(t, posts[0].HotScore, posts[1].HotScore)
}

func TestRebuild_EmptyTable(t *testing.T) {
	t.Parallel()
	n, err := NewRankingService(newTestDB(t)).Rebuild(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}
