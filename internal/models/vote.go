package models

import (
	"time"
)

// TargetKind 投票对象类型
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Valid reports whether k names a votable entity.
func (k TargetKind) Valid() bool {
	return k == TargetPost || k == TargetComment
}

// VoterKind 投票人身份命名空间
type VoterKind string

const (
	VoterUser      VoterKind = "user"
	VoterAnonymous VoterKind = "anon"
)

const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote is one ballot. The ballot key (target_kind, target_id, voter_kind,
// voter_key) is unique, which gives independent uniqueness per target type and
// per identity namespace without depending on how the database compares NULLs.
type Vote struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	TargetKind TargetKind `gorm:"size:10;not null;uniqueIndex:idx_vote_ballot,priority:1" json:"target_kind"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_vote_ballot,priority:2" json:"target_id"`
	VoterKind  VoterKind  `gorm:"size:10;not null;uniqueIndex:idx_vote_ballot,priority:3" json:"voter_kind"`
	VoterKey   string     `gorm:"size:64;not null;uniqueIndex:idx_vote_ballot,priority:4" json:"-"`

	// Exactly one of PostID/CommentID is set; they carry the cascade.
	PostID    *uint    `gorm:"index" json:"post_id"`
	Post      *Post    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CommentID *uint    `gorm:"index" json:"comment_id"`
	Comment   *Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	VoterUserID      *uint   `gorm:"index" json:"voter_user_id"`
	VoterAnonymousID *string `gorm:"size:255" json:"-"`

	Value     int       `gorm:"not null" json:"value"` // 1 or -1, never 0
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
