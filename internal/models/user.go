package models

import (
	"time"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:50;not null" json:"username"`
	// Karma is the running total maintained by the vote path. It is never
	// recomputed; see services.KarmaService for the live breakdown.
	Karma     int       `gorm:"default:0;not null" json:"karma"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
