package services

import (
	"errors"
	"fmt"
	"time"

	"isitjustme/internal/models"

	"gorm.io/gorm"
)

// voteTarget is the part of a post or comment the vote path needs.
type voteTarget struct {
	Kind      models.TargetKind
	ID        uint
	AuthorID  *uint
	CreatedAt time.Time
}

// findTarget loads the voted-on entity. Missing targets are TargetNotFound.
func findTarget(tx *gorm.DB, kind models.TargetKind, id uint) (*voteTarget, error) {
	var row struct {
		ID        uint
		AuthorID  *uint
		CreatedAt time.Time
	}

	var model interface{}
	switch kind {
	case models.TargetPost:
		model = &models.Post{}
	case models.TargetComment:
		model = &models.Comment{}
	default:
		return nil, models.NewValidationError("type must be post or comment")
	}

	err := tx.Model(model).
		Select("id", "author_id", "created_at").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewTargetNotFoundError(kind, id)
	}
	if err != nil {
		return nil, err
	}
	return &voteTarget{Kind: kind, ID: row.ID, AuthorID: row.AuthorID, CreatedAt: row.CreatedAt}, nil
}

// tally is the target state after the aggregate update.
type tally struct {
	Upvotes   int
	Downvotes int
	Score     int
	HotScore  *float64
}

// applyAggregates moves the target counters by t using atomic column
// arithmetic, re-stamps hot_score for posts, and credits the author.
func (s *VoteService) applyAggregates(tx *gorm.DB, target *voteTarget, t transition, voteID uint) (*tally, error) {
	var model interface{} = &models.Comment{}
	if target.Kind == models.TargetPost {
		model = &models.Post{}
	}

	res := tx.Model(model).
		Where("id = ?", target.ID).
		UpdateColumns(map[string]interface{}{
			"upvotes":   gorm.Expr("upvotes + ?", t.upDelta),
			"downvotes": gorm.Expr("downvotes + ?", t.downDelta),
			"score":     gorm.Expr("score + ?", t.scoreDelta()),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected != 1 {
		// deleted between findTarget and here
		return nil, models.NewTargetNotFoundError(target.Kind, target.ID)
	}

	var out tally
	if target.Kind == models.TargetPost {
		c, hot, err := s.ranking.Recompute(tx, target.ID)
		if err != nil {
			return nil, err
		}
		out = tally{Upvotes: c.Upvotes, Downvotes: c.Downvotes, Score: c.Score, HotScore: &hot}
	} else {
		var c models.Comment
		if err := tx.Select("upvotes", "downvotes", "score").
			Where("id = ?", target.ID).
			Take(&c).Error; err != nil {
			return nil, err
		}
		out = tally{Upvotes: c.Upvotes, Downvotes: c.Downvotes, Score: c.Score}
	}

	if err := creditAuthor(tx, target, t, voteID); err != nil {
		return nil, err
	}
	return &out, nil
}

// creditAuthor applies the karma delta to the cached total and records it.
// Anonymous content has no author and credits nobody.
func creditAuthor(tx *gorm.DB, target *voteTarget, t transition, voteID uint) error {
	delta := t.scoreDelta()
	if target.AuthorID == nil || delta == 0 {
		return nil
	}

	if err := tx.Model(&models.User{}).
		Where("id = ?", *target.AuthorID).
		UpdateColumn("karma", gorm.Expr("karma + ?", delta)).
		Error; err != nil {
		return err
	}

	entry := models.KarmaLog{
		UserID: *target.AuthorID,
		VoteID: &voteID,
		Amount: delta,
		Action: karmaAction(target.Kind, t),
	}
	return tx.Create(&entry).Error
}

// karmaAction 积分明细里的动作描述, e.g. "post_upvoted", "comment_vote_flipped"
func karmaAction(kind models.TargetKind, t transition) string {
	var verb string
	switch t.action {
	case ActionCreated:
		if t.to == models.VoteUp {
			verb = "upvoted"
		} else {
			verb = "downvoted"
		}
	case ActionUpdated:
		verb = "vote_flipped"
	case ActionDeleted:
		verb = "vote_retracted"
	}
	return fmt.Sprintf("%s_%s", kind, verb)
}
