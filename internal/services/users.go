package services

import (
	"context"
	"errors"
	"strings"

	"isitjustme/internal/models"

	"gorm.io/gorm"
)

// UserService is the small slice of account handling the forum core needs:
// creating authors/voters and loading them for the session.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Create(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.NewValidationError("username is required")
	}
	if len(username) > 50 {
		return nil, models.NewValidationError("username too long (max 50 characters)")
	}

	user := models.User{Username: username}
	err := s.db.WithContext(ctx).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, models.NewValidationError("username already taken")
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}
