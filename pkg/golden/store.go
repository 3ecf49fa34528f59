// Package golden implements the transactional merge and promotion
// operations that coalesce reviewed candidates into GoldenRecords. It is
// the only place that writes golden_record_id.
package golden

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/magnolia/internal/platform/database"
	"github.com/Ramsey-B/magnolia/internal/platform/lock"
	"github.com/Ramsey-B/magnolia/internal/platform/tracing"
	"github.com/Ramsey-B/magnolia/pkg/mergeplan"
	"github.com/Ramsey-B/magnolia/pkg/models"

	"github.com/Gobusters/ectoerror/httperror"
)

// CandidateRepo is the slice of match-candidate persistence the store
// needs, narrow enough to stand in an in-memory implementation for tests.
type CandidateRepo interface {
	Get(ctx context.Context, id string) (*models.MatchCandidate, error)
	ListByRecord(ctx context.Context, recordID string, status string) ([]models.MatchCandidate, error)
	UpdateStatus(ctx context.Context, id string, status models.MatchCandidateStatus, notes *string) error
}

// RecordRepo is the slice of customer-record persistence the store needs.
type RecordRepo interface {
	Get(ctx context.Context, id string) (*models.CustomerRecord, error)
	ListUnpromoted(ctx context.Context) ([]models.CustomerRecord, error)
	SetGoldenRecordID(ctx context.Context, id string, goldenRecordID string) error
}

// GoldenRepo is the slice of golden-record persistence the store needs.
type GoldenRepo interface {
	Create(ctx context.Context, golden *models.GoldenRecord) (*models.GoldenRecord, error)
	Update(ctx context.Context, golden *models.GoldenRecord) error
	FindByRecordID(ctx context.Context, recordID string) (*models.GoldenRecord, error)
}

// LockHandle releases a held merge lock.
type LockHandle interface {
	Release(ctx context.Context)
}

// Locker guards a record pair against concurrent merges. Satisfied by
// lock.Locker via NewLockerAdapter.
type Locker interface {
	Acquire(ctx context.Context, key, token string) (LockHandle, error)
}

// EventPublisher emits best-effort notifications of store activity.
// Satisfied directly by *events.Producer.
type EventPublisher interface {
	PublishGoldenMerged(ctx context.Context, matchID, goldenRecordID string, sourceCount int)
	PublishGoldenPromoted(ctx context.Context, goldenRecordID string)
	PublishMatchReviewed(ctx context.Context, matchID, status string)
}

// lockerAdapter adapts lock.Locker's concrete *lock.Handle return value to
// the LockHandle interface this package composes against.
type lockerAdapter struct{ l *lock.Locker }

// NewLockerAdapter wraps a concrete *lock.Locker as a Locker.
func NewLockerAdapter(l *lock.Locker) Locker {
	return &lockerAdapter{l: l}
}

func (a *lockerAdapter) Acquire(ctx context.Context, key, token string) (LockHandle, error) {
	return a.l.Acquire(ctx, key, token)
}

// Store coordinates candidates, customer records, and golden records under
// one transaction per operation.
type Store struct {
	db         database.DB
	candidates CandidateRepo
	records    RecordRepo
	goldens    GoldenRepo
	locker     Locker
	events     EventPublisher
	logger     ectologger.Logger
}

func NewStore(db database.DB, candidates CandidateRepo, records RecordRepo, goldens GoldenRepo, locker Locker, publisher EventPublisher, logger ectologger.Logger) *Store {
	return &Store{
		db:         db,
		candidates: candidates,
		records:    records,
		goldens:    goldens,
		locker:     locker,
		events:     publisher,
		logger:     logger,
	}
}

// Merge resolves the field-by-field merge plan, locates or creates the
// destination golden record, links both source records to it, and
// transitions the candidate to MERGED. surviving overrides the merge
// planner's auto-selected values field-by-field; pass nil to accept the
// auto plan as-is.
func (s *Store) Merge(ctx context.Context, matchID string, surviving map[string]*string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "golden.Store.Merge")
	defer span.End()

	candidate, err := s.candidates.Get(ctx, matchID)
	if err != nil {
		return "", err
	}
	if candidate.Status.IsTerminal() {
		return "", ErrInvalidStateTransition("candidate is already " + string(candidate.Status))
	}

	pairKey := lock.PairKey(candidate.RecordAID, candidate.RecordBID)
	token := uuid.New().String()
	handle, err := s.locker.Acquire(ctx, pairKey, token)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return "", ErrStaleCandidate()
		}
		return "", err
	}
	defer handle.Release(ctx)

	recordA, err := s.records.Get(ctx, candidate.RecordAID)
	if err != nil {
		return "", err
	}
	recordB, err := s.records.Get(ctx, candidate.RecordBID)
	if err != nil {
		return "", err
	}

	values := mergeplan.ResolveValues(recordA, recordB, surviving)

	ctxTx, tx, err := s.db.GetTx(ctx, &sql.TxOptions{})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to start merge transaction")
		return "", httperror.NewHTTPError(http.StatusInternalServerError, "failed to start merge transaction")
	}
	defer tx.Rollback(ctxTx)

	goldenA, err := s.goldens.FindByRecordID(ctxTx, recordA.ID)
	if err != nil {
		return "", err
	}
	goldenB, err := s.goldens.FindByRecordID(ctxTx, recordB.ID)
	if err != nil {
		return "", err
	}
	if goldenA != nil && goldenB != nil && goldenA.ID != goldenB.ID {
		return "", ErrConflictingGoldens()
	}

	var golden *models.GoldenRecord
	switch {
	case goldenA != nil:
		golden = goldenA
	case goldenB != nil:
		golden = goldenB
	}

	if golden != nil {
		for _, field := range models.StandardFields {
			if v := values[field]; v != nil && *v != "" {
				golden.SetField(field, v)
			}
		}
		// One side was already attached; the other is newly joining the
		// golden, so source_count grows by exactly one.
		golden.SourceCount++
		if err := s.goldens.Update(ctxTx, golden); err != nil {
			return "", err
		}
	} else {
		golden = &models.GoldenRecord{SourceCount: 2}
		for _, field := range models.StandardFields {
			golden.SetField(field, values[field])
		}
		created, err := s.goldens.Create(ctxTx, golden)
		if err != nil {
			return "", err
		}
		golden = created
	}

	if err := s.records.SetGoldenRecordID(ctxTx, recordA.ID, golden.ID); err != nil {
		return "", err
	}
	if err := s.records.SetGoldenRecordID(ctxTx, recordB.ID, golden.ID); err != nil {
		return "", err
	}
	if err := s.candidates.UpdateStatus(ctxTx, candidate.ID, models.MatchCandidateStatusMerged, candidate.Notes); err != nil {
		return "", err
	}

	if err := tx.Commit(ctxTx); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to commit merge transaction")
		return "", httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit merge transaction")
	}

	s.events.PublishGoldenMerged(ctx, candidate.ID, golden.ID, golden.SourceCount)
	return golden.ID, nil
}

// Review records a reviewer's approve/reject decision without merging.
// Only a PENDING candidate may be reviewed; reviewing a terminal or already
// APPROVED candidate fails with InvalidStateTransition.
func (s *Store) Review(ctx context.Context, matchID string, status models.MatchCandidateStatus, notes *string) error {
	ctx, span := tracing.StartSpan(ctx, "golden.Store.Review")
	defer span.End()

	if status != models.MatchCandidateStatusApproved && status != models.MatchCandidateStatusRejected {
		return httperror.NewHTTPError(http.StatusBadRequest, "status must be approved or rejected")
	}

	candidate, err := s.candidates.Get(ctx, matchID)
	if err != nil {
		return err
	}
	if candidate.Status != models.MatchCandidateStatusPending {
		return ErrInvalidStateTransition("candidate is not pending review")
	}

	if err := s.candidates.UpdateStatus(ctx, matchID, status, notes); err != nil {
		return err
	}

	s.events.PublishMatchReviewed(ctx, matchID, string(status))
	return nil
}

// PromoteUnmatched creates a one-to-one golden record for every customer
// record that has no golden yet and no pending candidate still under
// review, copying its fields verbatim. It is idempotent: a record already
// linked, or still awaiting review, is left untouched.
func (s *Store) PromoteUnmatched(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "golden.Store.PromoteUnmatched")
	defer span.End()

	candidates, err := s.records.ListUnpromoted(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range candidates {
		rec := &candidates[i]

		pending, err := s.candidates.ListByRecord(ctx, rec.ID, string(models.MatchCandidateStatusPending))
		if err != nil {
			return count, err
		}
		if len(pending) > 0 {
			continue
		}

		if err := s.promoteOne(ctx, rec); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func (s *Store) promoteOne(ctx context.Context, rec *models.CustomerRecord) error {
	ctxTx, tx, err := s.db.GetTx(ctx, &sql.TxOptions{})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to start promotion transaction")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start promotion transaction")
	}
	defer tx.Rollback(ctxTx)

	golden := &models.GoldenRecord{SourceCount: 1}
	for _, field := range models.StandardFields {
		golden.SetField(field, rec.Field(field))
	}

	created, err := s.goldens.Create(ctxTx, golden)
	if err != nil {
		return err
	}
	if err := s.records.SetGoldenRecordID(ctxTx, rec.ID, created.ID); err != nil {
		return err
	}

	if err := tx.Commit(ctxTx); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("failed to commit promotion transaction")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit promotion transaction")
	}

	s.events.PublishGoldenPromoted(ctx, created.ID)
	return nil
}
