package services

import (
	"context"
	"errors"
	"log"
	"time"

	"isitjustme/internal/models"

	"gorm.io/gorm"
)

// VoteRequest is a validated ballot from the request layer.
type VoteRequest struct {
	TargetKind models.TargetKind
	TargetID   uint
	Value      int
	Voter      VoterIdentity
}

// VoteResult is the ballot outcome and the target counters after it.
type VoteResult struct {
	VoteID    uint       `json:"voteId"`
	Action    VoteAction `json:"action"`
	Value     int        `json:"value"` // caller's ballot now, 0 after a toggle-off
	Upvotes   int        `json:"upvotes"`
	Downvotes int        `json:"downvotes"`
	Score     int        `json:"score"`
	HotScore  *float64   `json:"hotScore,omitempty"` // posts only
}

// VoteService owns the ballot ledger and the counters derived from it.
type VoteService struct {
	db      *gorm.DB
	ranking *RankingService
}

func NewVoteService(db *gorm.DB, ranking *RankingService) *VoteService {
	if ranking == nil {
		ranking = NewRankingService(db)
	}
	return &VoteService{db: db, ranking: ranking}
}

func (r VoteRequest) validate() error {
	if !r.TargetKind.Valid() {
		return models.NewValidationError("type must be post or comment")
	}
	if r.TargetID == 0 {
		return models.NewValidationError("target id is required")
	}
	if r.Value != models.VoteUp && r.Value != models.VoteDown {
		return models.NewValidationError("value must be 1 or -1")
	}
	if !r.Voter.valid() {
		return models.NewIdentityRequiredError()
	}
	return nil
}

// CastVote records req.Voter's ballot on the target: a first vote creates it,
// the same value again removes it, the opposite value flips it. Ledger,
// counters, hot score and author karma commit in one transaction.
func (s *VoteService) CastVote(ctx context.Context, req VoteRequest) (*VoteResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var result *VoteResult
	err := retryBallotRace(ctx, req, func() error {
		var err error
		result, err = s.castOnce(ctx, req)
		return err
	})

	outcome := "ok"
	if err != nil {
		outcome = models.ErrorCode(err)
	}
	VoteDuration.WithLabelValues(string(req.TargetKind), outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		log.Printf("vote on %s %d by %s rolled back: %v", req.TargetKind, req.TargetID, req.Voter, err)
		return nil, models.NewInternalError(err)
	}

	VotesTotal.WithLabelValues(string(req.TargetKind), string(result.Action)).Inc()
	return result, nil
}

func (s *VoteService) castOnce(ctx context.Context, req VoteRequest) (*VoteResult, error) {
	var result *VoteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// existence first: no ledger read for a missing target
		target, err := findTarget(tx, req.TargetKind, req.TargetID)
		if err != nil {
			return err
		}

		existing, err := findBallot(tx, req.TargetKind, req.TargetID, req.Voter)
		if err != nil {
			return err
		}

		t := decide(existing, req.Value)
		voteID, err := writeBallot(tx, req.TargetKind, req.TargetID, req.Voter, existing, t)
		if err != nil {
			return err
		}

		counts, err := s.applyAggregates(tx, target, t, voteID)
		if err != nil {
			return err
		}

		result = &VoteResult{
			VoteID:    voteID,
			Action:    t.action,
			Value:     t.to,
			Upvotes:   counts.Upvotes,
			Downvotes: counts.Downvotes,
			Score:     counts.Score,
			HotScore:  counts.HotScore,
		}
		return nil
	})
	return result, err
}

// isBallotRace reports whether err came from another request by the same
// voter committing first.
func isBallotRace(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, errBallotMoved)
}

// retryBallotRace runs attempt and, if it lost a same-voter race, runs it once
// more against the winner's committed state. Losing twice is an internal error.
func retryBallotRace(ctx context.Context, req VoteRequest, attempt func() error) error {
	err := attempt()
	if !isBallotRace(err) {
		return err
	}
	VoteConflicts.WithLabelValues("retried").Inc()
	log.Printf("vote race on %s %d by %s, retrying", req.TargetKind, req.TargetID, req.Voter)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	err = attempt()
	if isBallotRace(err) {
		VoteConflicts.WithLabelValues("failed").Inc()
		return models.NewInternalError(models.NewConcurrentModificationError(err))
	}
	return err
}

// GetVote returns the voter's current ballot value on a target, 0 if none.
func (s *VoteService) GetVote(ctx context.Context, kind models.TargetKind, targetID uint, voter VoterIdentity) (int, error) {
	if !kind.Valid() {
		return 0, models.NewValidationError("type must be post or comment")
	}
	if !voter.valid() {
		return 0, models.NewIdentityRequiredError()
	}
	vote, err := findBallot(s.db.WithContext(ctx), kind, targetID, voter)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	if vote == nil {
		return 0, nil
	}
	return vote.Value, nil
}
