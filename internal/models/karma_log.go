package models

import (
	"time"
)

// KarmaLog 记录每一次 karma 变动，与 User.Karma 的累计值同一事务写入
type KarmaLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	VoteID    *uint     `gorm:"index" json:"vote_id"`   // ballot that caused the change; may no longer exist
	Amount    int       `gorm:"not null" json:"amount"` // 正数为增加，负数为扣除
	Action    string    `gorm:"size:100;not null" json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
