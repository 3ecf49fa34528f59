package customerrecord

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/magnolia/internal/platform/database"
	"github.com/Ramsey-B/magnolia/internal/platform/tracing"
	"github.com/Ramsey-B/magnolia/pkg/models"
)

var columns = append([]string{
	"id", "source_id", "source_row_number",
}, append(append([]string{}, models.StandardFields...), "raw_data", "golden_record_id")...)

// Repository handles customer record persistence.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) Create(ctx context.Context, record *models.CustomerRecord) (*models.CustomerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "customerrecord.Repository.Create")
	defer span.End()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("customer_records")
	sb.Cols(columns...)
	sb.Values(r.values(record)...)

	query, args := sb.Build()
	if _, err := database.Resolve(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create customer record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create customer record")
	}

	return record, nil
}

// CreateBatch inserts a batch of records from a single ingestion run.
func (r *Repository) CreateBatch(ctx context.Context, records []*models.CustomerRecord) error {
	ctx, span := tracing.StartSpan(ctx, "customerrecord.Repository.CreateBatch")
	defer span.End()

	if len(records) == 0 {
		return nil
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("customer_records")
	sb.Cols(columns...)

	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		sb.Values(r.values(rec)...)
	}

	query, args := sb.Build()
	if _, err := database.Resolve(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create customer records batch")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create customer records")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"count": len(records)}).Debug("created customer records batch")
	return nil
}

func (r *Repository) values(rec *models.CustomerRecord) []any {
	vals := []any{rec.ID, rec.SourceID, rec.SourceRowNumber}
	for _, field := range models.StandardFields {
		vals = append(vals, rec.Field(field))
	}
	vals = append(vals, rec.RawData, rec.GoldenRecordID)
	return vals
}

func (r *Repository) Get(ctx context.Context, id string) (*models.CustomerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "customerrecord.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("customer_records")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var record models.CustomerRecord
	if err := database.Resolve(ctx, r.db).GetContext(ctx, &record, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("customer record %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get customer record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get customer record")
	}

	return &record, nil
}

// ListBySource returns every record ingested from a given data source.
func (r *Repository) ListBySource(ctx context.Context, sourceID string) ([]models.CustomerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "customerrecord.Repository.ListBySource")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("customer_records")
	sb.Where(sb.Equal("source_id", sourceID))
	sb.OrderBy("source_row_number ASC")

	query, args := sb.Build()
	var records []models.CustomerRecord
	if err := database.Resolve(ctx, r.db).SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list customer records by source")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list customer records")
	}

	return records, nil
}

// ListAll returns every customer record, used to build the matching
// engine's candidate pair universe.
func (r *Repository) ListAll(ctx context.Context) ([]models.CustomerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "customerrecord.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("customer_records")
	sb.OrderBy("id ASC")

	query, args := sb.Build()
	var records []models.CustomerRecord
	if err := database.Resolve(ctx, r.db).SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list customer records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list customer records")
	}

	return records, nil
}

// ListUnpromoted returns records not yet linked to a golden record, for
// promote_unmatched.
func (r *Repository) ListUnpromoted(ctx context.Context) ([]models.CustomerRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "customerrecord.Repository.ListUnpromoted")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("customer_records")
	sb.Where(sb.IsNull("golden_record_id"))
	sb.OrderBy("id ASC")

	query, args := sb.Build()
	var records []models.CustomerRecord
	if err := database.Resolve(ctx, r.db).SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list unpromoted customer records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list unpromoted customer records")
	}

	return records, nil
}

// Count returns the total number of customer records, for dashboard stats.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "customerrecord.Repository.Count")
	defer span.End()

	var count int
	if err := database.Resolve(ctx, r.db).GetContext(ctx, &count, "SELECT COUNT(*) FROM customer_records"); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count customer records")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count customer records")
	}

	return count, nil
}

// SetGoldenRecordID links a customer record to the golden record it merged
// or promoted into. Must run inside the caller's transaction.
func (r *Repository) SetGoldenRecordID(ctx context.Context, id string, goldenRecordID string) error {
	ctx, span := tracing.StartSpan(ctx, "customerrecord.Repository.SetGoldenRecordID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("customer_records")
	sb.Set(sb.Assign("golden_record_id", goldenRecordID))
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	if _, err := database.Resolve(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to set golden_record_id")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to link customer record to golden record")
	}

	return nil
}
