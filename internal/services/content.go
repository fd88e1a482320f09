package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"isitjustme/internal/models"
	"isitjustme/internal/utils"

	"gorm.io/gorm"
)

const (
	maxTitleLen   = 300
	maxContentLen = 40000
)

// Post list orderings.
const (
	SortHot = "hot"
	SortNew = "new"
	SortTop = "top"
)

type CreatePostInput struct {
	AuthorID *uint // nil for anonymous posts
	Title    string
	Content  string
}

type CreateCommentInput struct {
	PostID   uint
	ParentID *uint
	AuthorID *uint
	Content  string
}

// ContentService creates and removes votable content. New posts are stamped
// with their initial hot score so ranking queries never compute it per row.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

func (s *ContentService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 40000 characters)")
	}

	now := time.Now().UTC()
	post := models.Post{
		AuthorID:    in.AuthorID,
		Title:       title,
		Content:     in.Content,
		ContentHTML: utils.RenderMarkdown(in.Content),
		HotScore:    utils.HotScore(0, 0, now),
		CreatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (s *ContentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 40000 characters)")
	}

	db := s.db.WithContext(ctx)
	if err := db.Select("id").Take(&models.Post{}, in.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", in.PostID)
		}
		return nil, models.NewInternalError(err)
	}

	if in.ParentID != nil {
		var parent models.Comment
		if err := db.Select("id", "post_id").Take(&parent, *in.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("comment", *in.ParentID)
			}
			return nil, models.NewInternalError(err)
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("parent comment belongs to another post")
		}
	}

	comment := models.Comment{
		PostID:   in.PostID,
		ParentID: in.ParentID,
		AuthorID: in.AuthorID,
		Content:  in.Content,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListPosts orders by the stored hot_score/score/created_at columns.
func (s *ContentService) ListPosts(ctx context.Context, sort string, limit int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	q := s.db.WithContext(ctx).Preload("Author")
	switch sort {
	case SortNew:
		q = q.Order("created_at DESC")
	case SortTop:
		q = q.Order("score DESC, created_at DESC")
	case SortHot, "":
		q = q.Order("hot_score DESC, id DESC")
	default:
		return nil, models.NewValidationError("sort must be hot, new or top")
	}

	var posts []models.Post
	if err := q.Limit(limit).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// DeletePost removes a post, its comments and every ballot on them. Only the
// author may delete; anonymous posts cannot be deleted through this path.
// Karma already credited to the author stays in the cached total.
func (s *ContentService) DeletePost(ctx context.Context, postID, userID uint) error {
	return s.wrap(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "author_id").Take(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("post", postID)
			}
			return err
		}
		if post.AuthorID == nil || *post.AuthorID != userID {
			return models.NewForbiddenError("You can only delete your own posts")
		}

		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", postID)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	}))
}

// DeleteComment removes a comment, its replies and their ballots.
func (s *ContentService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	return s.wrap(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Select("id", "author_id").Take(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("comment", commentID)
			}
			return err
		}
		if comment.AuthorID == nil || *comment.AuthorID != userID {
			return models.NewForbiddenError("You can only delete your own comments")
		}

		// 收集整棵回复树
		ids := []uint{commentID}
		frontier := []uint{commentID}
		for len(frontier) > 0 {
			var children []uint
			if err := tx.Model(&models.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}

		if err := tx.Where("comment_id IN ?", ids).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	}))
}

func (s *ContentService) wrap(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}
