package models

import (
	"time"
)

type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    *uint     `gorm:"index" json:"author_id"` // nil for anonymous posts
	Author      *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author,omitempty"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	ContentHTML string    `gorm:"type:text" json:"content_html"`
	Upvotes     int       `gorm:"default:0;not null" json:"upvotes"`
	Downvotes   int       `gorm:"default:0;not null" json:"downvotes"`
	Score       int       `gorm:"default:0;not null;index" json:"score"`
	HotScore    float64   `gorm:"default:0;not null;index" json:"hot_score"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
