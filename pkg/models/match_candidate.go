package models

import (
	"time"

	"github.com/Ramsey-B/magnolia/internal/platform/database"
)

// MatchCandidateStatus is a closed tagged variant; unknown inputs must be
// rejected at the boundary rather than stored.
type MatchCandidateStatus string

const (
	MatchCandidateStatusPending  MatchCandidateStatus = "PENDING"
	MatchCandidateStatusApproved MatchCandidateStatus = "APPROVED"
	MatchCandidateStatusRejected MatchCandidateStatus = "REJECTED"
	MatchCandidateStatusMerged   MatchCandidateStatus = "MERGED"
)

// ValidMatchCandidateStatus reports whether s is one of the four known
// status values.
func ValidMatchCandidateStatus(s string) bool {
	switch MatchCandidateStatus(s) {
	case MatchCandidateStatusPending, MatchCandidateStatusApproved, MatchCandidateStatusRejected, MatchCandidateStatusMerged:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status accepts no further review or merge.
func (s MatchCandidateStatus) IsTerminal() bool {
	return s == MatchCandidateStatusRejected || s == MatchCandidateStatusMerged
}

// MatchCandidate is an unordered pair of CustomerRecords flagged as
// potential duplicates. RecordAID and RecordBID are never equal.
type MatchCandidate struct {
	ID           string                             `json:"id" db:"id"`
	RecordAID    string                             `json:"record_a_id" db:"record_a_id"`
	RecordBID    string                             `json:"record_b_id" db:"record_b_id"`
	OverallScore float64                            `json:"overall_score" db:"overall_score"`
	FieldScores  database.JSONB[map[string]float64] `json:"field_scores" db:"field_scores"`
	MatchMethod  string                             `json:"match_method" db:"match_method"`
	Status       MatchCandidateStatus               `json:"status" db:"status"`
	ReviewedAt   *time.Time                         `json:"reviewed_at,omitempty" db:"reviewed_at"`
	Notes        *string                            `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time                          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time                          `json:"updated_at" db:"updated_at"`
}

// Pair returns the unordered pair key used for dedup and uniqueness
// checks. Lower id always comes first so {a,b} and {b,a} collapse.
func (m *MatchCandidate) Pair() (string, string) {
	return orderedPair(m.RecordAID, m.RecordBID)
}

func orderedPair(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}

// PairKey returns a canonical unordered-pair key for two record ids,
// usable as a map key for an in-run dedup set.
func PairKey(a, b string) string {
	lo, hi := orderedPair(a, b)
	return lo + "|" + hi
}
