package services

import (
	"context"
	"log"
	"time"

	"isitjustme/internal/models"
	"isitjustme/internal/utils"

	"gorm.io/gorm"
)

// RankingService 维护帖子的 hot_score 列，列表排序直接读该列
type RankingService struct {
	db *gorm.DB
}

func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{db: db}
}

// postCounters is the slice of a post the formula needs.
type postCounters struct {
	ID        uint
	Upvotes   int
	Downvotes int
	Score     int
	CreatedAt time.Time
}

// Recompute re-reads the post counters inside tx and stores the new hot
// score. It must run in the same transaction that changed the counters so the
// row lock taken by that update covers the read.
func (s *RankingService) Recompute(tx *gorm.DB, postID uint) (postCounters, float64, error) {
	var c postCounters
	if err := tx.Model(&models.Post{}).
		Select("id", "upvotes", "downvotes", "score", "created_at").
		Where("id = ?", postID).
		Take(&c).Error; err != nil {
		return c, 0, err
	}

	// 始终使用帖子自身的 created_at，而不是投票时间
	hot := utils.HotScore(c.Upvotes, c.Downvotes, c.CreatedAt)
	if err := tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("hot_score", hot).Error; err != nil {
		return c, 0, err
	}
	return c, hot, nil
}

// Rebuild re-stamps every post from its stored counters, batchSize rows at a
// time. A post whose counters moved between the read and the write is skipped:
// the vote that moved them already stored a fresh value.
func (s *RankingService) Rebuild(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	updated := 0
	var batch []models.Post
	result := s.db.WithContext(ctx).
		Select("id", "upvotes", "downvotes", "created_at").
		FindInBatches(&batch, batchSize, func(_ *gorm.DB, n int) error {
			for _, p := range batch {
				hot := utils.HotScore(p.Upvotes, p.Downvotes, p.CreatedAt)
				res := s.db.WithContext(ctx).Model(&models.Post{}).
					Where("id = ? AND upvotes = ? AND downvotes = ?", p.ID, p.Upvotes, p.Downvotes).
					UpdateColumn("hot_score", hot)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 1 {
					updated++
					HotScoreRebuilds.Inc()
				}
			}
			log.Printf("hot score rebuild: batch %d done, %d posts updated so far", n, updated)
			return nil
		})
	if result.Error != nil {
		return updated, models.NewInternalError(result.Error)
	}
	return updated, nil
}
