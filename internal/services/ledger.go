package services

import (
	"errors"

	"isitjustme/internal/models"

	"gorm.io/gorm"
)

// VoteAction is what the ledger did with an incoming ballot.
type VoteAction string

const (
	ActionCreated VoteAction = "created" // NoVote -> Upvoted/Downvoted
	ActionUpdated VoteAction = "updated" // flip
	ActionDeleted VoteAction = "deleted" // toggle-off
)

// errBallotMoved means the ballot row changed between our read and our write
// (another request from the same voter won). Treated like a unique violation.
var errBallotMoved = errors.New("ballot changed concurrently")

// transition is one edge of the per-ballot state machine together with the
// counter deltas it implies.
type transition struct {
	action    VoteAction
	from      int // previous value, 0 for NoVote
	to        int // resulting value, 0 for NoVote
	upDelta   int
	downDelta int
}

// scoreDelta is also the author's karma delta.
func (t transition) scoreDelta() int {
	return t.upDelta - t.downDelta
}

// decide maps (current ballot, incoming value) to a transition.
//
//	NoVote    +1 -> Upvoted    create
//	NoVote    -1 -> Downvoted  create
//	Upvoted   +1 -> NoVote     delete
//	Upvoted   -1 -> Downvoted  flip
//	Downvoted -1 -> NoVote     delete
//	Downvoted +1 -> Upvoted    flip
func decide(existing *models.Vote, incoming int) transition {
	t := transition{to: incoming}
	if existing != nil {
		t.from = existing.Value
	}

	switch {
	case t.from == 0:
		t.action = ActionCreated
	case t.from == incoming:
		t.action = ActionDeleted
		t.to = 0
	default:
		t.action = ActionUpdated
	}

	t.upDelta = boolInt(t.to == models.VoteUp) - boolInt(t.from == models.VoteUp)
	t.downDelta = boolInt(t.to == models.VoteDown) - boolInt(t.from == models.VoteDown)
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// findBallot returns the voter's ballot on the target, or nil.
func findBallot(tx *gorm.DB, kind models.TargetKind, targetID uint, voter VoterIdentity) (*models.Vote, error) {
	var vote models.Vote
	err := tx.Where("target_kind = ? AND target_id = ? AND voter_kind = ? AND voter_key = ?",
		kind, targetID, voter.Kind, voter.ballotKey()).
		Take(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// writeBallot applies the ledger side of t and returns the ballot id.
// Updates and deletes are conditioned on the value we read so a concurrent
// change by the same voter surfaces as errBallotMoved instead of being
// counted twice.
func writeBallot(tx *gorm.DB, kind models.TargetKind, targetID uint, voter VoterIdentity, existing *models.Vote, t transition) (uint, error) {
	switch t.action {
	case ActionCreated:
		vote := models.Vote{
			TargetKind: kind,
			TargetID:   targetID,
			VoterKind:  voter.Kind,
			VoterKey:   voter.ballotKey(),
			Value:      t.to,
		}
		if kind == models.TargetPost {
			vote.PostID = &targetID
		} else {
			vote.CommentID = &targetID
		}
		if voter.Kind == models.VoterUser {
			vote.VoterUserID = &voter.UserID
		} else {
			vote.VoterAnonymousID = &voter.AnonymousID
		}
		// a unique violation here is the race the caller retries
		if err := tx.Create(&vote).Error; err != nil {
			return 0, err
		}
		return vote.ID, nil

	case ActionUpdated:
		res := tx.Model(&models.Vote{}).
			Where("id = ? AND value = ?", existing.ID, t.from).
			Update("value", t.to)
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected != 1 {
			return 0, errBallotMoved
		}
		return existing.ID, nil

	case ActionDeleted:
		res := tx.Where("id = ? AND value = ?", existing.ID, t.from).Delete(&models.Vote{})
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected != 1 {
			return 0, errBallotMoved
		}
		return existing.ID, nil
	}
	return 0, errors.New("unknown vote action")
}
