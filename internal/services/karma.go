package services

import (
	"context"

	"isitjustme/internal/models"

	"gorm.io/gorm"
)

// Karma is a live breakdown computed from authored content. It is not the
// cached User.Karma total and the two are not guaranteed to agree, e.g. after
// content is deleted.
type Karma struct {
	PostKarma    int `json:"postKarma"`
	CommentKarma int `json:"commentKarma"`
	TotalKarma   int `json:"totalKarma"`
}

type KarmaService struct {
	db *gorm.DB
}

func NewKarmaService(db *gorm.DB) *KarmaService {
	return &KarmaService{db: db}
}

// GetKarma sums the score of every post and comment authored by userID.
// Unknown users and users without content get zeros.
func (s *KarmaService) GetKarma(ctx context.Context, userID uint) (*Karma, error) {
	var postKarma, commentKarma int64

	if err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ?", userID).
		Select("COALESCE(SUM(score), 0)").
		Scan(&postKarma).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("author_id = ?", userID).
		Select("COALESCE(SUM(score), 0)").
		Scan(&commentKarma).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return &Karma{
		PostKarma:    int(postKarma),
		CommentKarma: int(commentKarma),
		TotalKarma:   int(postKarma + commentKarma),
	}, nil
}

// History 获取用户最近的 karma 变动明细
func (s *KarmaService) History(ctx context.Context, userID uint, limit int) ([]models.KarmaLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var logs []models.KarmaLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return logs, nil
}
