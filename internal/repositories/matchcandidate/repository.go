package matchcandidate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/magnolia/internal/platform/database"
	"github.com/Ramsey-B/magnolia/internal/platform/tracing"
	"github.com/Ramsey-B/magnolia/pkg/models"
)

var columns = []string{
	"id", "record_a_id", "record_b_id", "overall_score", "field_scores",
	"match_method", "status", "reviewed_at", "notes", "created_at", "updated_at",
}

// Repository handles match candidate persistence.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Create inserts a new candidate. A duplicate (record_a_id, record_b_id)
// pair violates the table's unique constraint and is returned as an error;
// the matching engine dedups against history before it writes.
func (r *Repository) Create(ctx context.Context, candidate *models.MatchCandidate) (*models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.Create")
	defer span.End()

	if candidate.ID == "" {
		candidate.ID = uuid.New().String()
	}
	candidate.CreatedAt = time.Now().UTC()
	candidate.UpdatedAt = candidate.CreatedAt
	if candidate.Status == "" {
		candidate.Status = models.MatchCandidateStatusPending
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("match_candidates")
	sb.Cols(columns...)
	sb.Values(candidate.ID, candidate.RecordAID, candidate.RecordBID, candidate.OverallScore,
		candidate.FieldScores, candidate.MatchMethod, candidate.Status, candidate.ReviewedAt,
		candidate.Notes, candidate.CreatedAt, candidate.UpdatedAt)

	query, args := sb.Build()
	if _, err := database.Resolve(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"candidate_id": candidate.ID}).Error("failed to create match candidate")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create match candidate")
	}

	return candidate, nil
}

// CreateBatch inserts candidates in one round trip, skipping any
// (record_a_id, record_b_id) pair already present in the same order.
func (r *Repository) CreateBatch(ctx context.Context, candidates []*models.MatchCandidate) error {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.CreateBatch")
	defer span.End()

	if len(candidates) == 0 {
		return nil
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("match_candidates")
	sb.Cols(columns...)

	for _, c := range candidates {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		c.CreatedAt = now
		c.UpdatedAt = now
		if c.Status == "" {
			c.Status = models.MatchCandidateStatusPending
		}
		sb.Values(c.ID, c.RecordAID, c.RecordBID, c.OverallScore, c.FieldScores,
			c.MatchMethod, c.Status, c.ReviewedAt, c.Notes, c.CreatedAt, c.UpdatedAt)
	}

	query, args := sb.Build()
	query += " ON CONFLICT (record_a_id, record_b_id) DO NOTHING"

	if _, err := database.Resolve(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create match candidates batch")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create match candidates")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"count": len(candidates)}).Debug("created match candidates batch")
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("match_candidates")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var candidate models.MatchCandidate
	if err := database.Resolve(ctx, r.db).GetContext(ctx, &candidate, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("match candidate %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get match candidate")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get match candidate")
	}

	return &candidate, nil
}

// ListPending returns pending candidates ordered for a reviewer queue,
// highest score first.
func (r *Repository) ListPending(ctx context.Context, limit int) ([]models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.ListPending")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("match_candidates")
	sb.Where(sb.Equal("status", string(models.MatchCandidateStatusPending)))
	sb.OrderBy("overall_score DESC", "created_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var candidates []models.MatchCandidate
	if err := database.Resolve(ctx, r.db).SelectContext(ctx, &candidates, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list pending match candidates")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list pending match candidates")
	}

	return candidates, nil
}

// ListByRecord returns every candidate involving recordID, in either slot.
func (r *Repository) ListByRecord(ctx context.Context, recordID string, status string) ([]models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.ListByRecord")
	defer span.End()

	query := `
		SELECT ` + columnList() + `
		FROM match_candidates
		WHERE (record_a_id = $1 OR record_b_id = $1)
	`
	args := []any{recordID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY overall_score DESC, created_at DESC"

	var candidates []models.MatchCandidate
	if err := database.Resolve(ctx, r.db).SelectContext(ctx, &candidates, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list match candidates by record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list match candidates")
	}

	return candidates, nil
}

// GetByRecordPair returns the existing candidate between two records
// regardless of which side each was inserted under, or nil if none exists.
func (r *Repository) GetByRecordPair(ctx context.Context, recordA, recordB string) (*models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.GetByRecordPair")
	defer span.End()

	query := `
		SELECT ` + columnList() + `
		FROM match_candidates
		WHERE (record_a_id = $1 AND record_b_id = $2) OR (record_a_id = $2 AND record_b_id = $1)
		LIMIT 1
	`

	var candidate models.MatchCandidate
	if err := database.Resolve(ctx, r.db).GetContext(ctx, &candidate, query, recordA, recordB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get match candidate by record pair")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get match candidate")
	}

	return &candidate, nil
}

// ExistingPairs returns the full set of record pairs already present as
// candidates, keyed by models.PairKey, so the matching engine can skip
// re-scoring them.
func (r *Repository) ExistingPairs(ctx context.Context) (map[string]bool, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.ExistingPairs")
	defer span.End()

	query := `SELECT record_a_id, record_b_id FROM match_candidates`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list existing pairs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list existing pairs")
	}
	defer rows.Close()

	pairs := make(map[string]bool)
	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to scan existing pair")
		}
		pairs[models.PairKey(a, b)] = true
	}

	return pairs, rows.Err()
}

// UpdateStatus transitions a candidate's status by ID, stamping reviewed_at
// and recording an optional reviewer note.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status models.MatchCandidateStatus, notes *string) error {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.UpdateStatus")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("match_candidates")
	sb.Set(
		sb.Assign("status", string(status)),
		sb.Assign("reviewed_at", now),
		sb.Assign("notes", notes),
		sb.Assign("updated_at", now),
	)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := database.Resolve(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to update match candidate status")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update match candidate status")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("match candidate %s not found", id))
	}

	return nil
}

// ListFiltered returns a page of candidates, optionally filtered by status,
// ordered by overall_score descending for the reviewer queue.
func (r *Repository) ListFiltered(ctx context.Context, status string, skip, limit int) ([]models.MatchCandidate, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.ListFiltered")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("match_candidates")
	if status != "" {
		sb.Where(sb.Equal("status", status))
	}
	sb.OrderBy("overall_score DESC", "created_at DESC")
	sb.Limit(limit)
	sb.Offset(skip)

	query, args := sb.Build()
	var candidates []models.MatchCandidate
	if err := database.Resolve(ctx, r.db).SelectContext(ctx, &candidates, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list match candidates")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list match candidates")
	}

	return candidates, nil
}

// CountByStatus returns the number of candidates in a given status, used by
// the dashboard rollup. An empty status counts every candidate.
func (r *Repository) CountByStatus(ctx context.Context, status string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "matchcandidate.Repository.CountByStatus")
	defer span.End()

	var (
		count int
		err   error
	)
	if status == "" {
		err = database.Resolve(ctx, r.db).GetContext(ctx, &count, "SELECT COUNT(*) FROM match_candidates")
	} else {
		err = database.Resolve(ctx, r.db).GetContext(ctx, &count, "SELECT COUNT(*) FROM match_candidates WHERE status = $1", status)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count match candidates")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count match candidates")
	}

	return count, nil
}

func columnList() string {
	out := columns[0]
	for _, c := range columns[1:] {
		out += ", " + c
	}
	return out
}
