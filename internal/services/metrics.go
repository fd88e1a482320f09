package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VotesTotal counts applied ballots by target kind and ledger action.
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_votes_total",
		Help: "Total number of applied votes by target kind and action",
	}, []string{"target_kind", "action"})

	// VoteConflicts counts ballot races: "retried" when the loser re-ran the
	// transition, "failed" when the retry collided again.
	VoteConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_vote_conflicts_total",
		Help: "Total number of same-identity vote races",
	}, []string{"outcome"})

	// VoteDuration records the latency of CastVote including retries.
	VoteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forum_vote_duration_seconds",
		Help:    "CastVote latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"target_kind", "outcome"})

	// HotScoreRebuilds counts posts re-stamped by RankingService.Rebuild.
	HotScoreRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forum_hot_score_rebuilds_total",
		Help: "Total number of posts whose hot score was recomputed by a rebuild",
	})
)
