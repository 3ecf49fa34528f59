package goldenrecord

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

var columns = append(append([]string{"id"}, models.StandardFields...), "source_count", "created_at", "updated_at")

// Repository handles golden record persistence. Every write here is
// expected to run inside a transaction owned by the golden record store.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) values(g *models.GoldenRecord) []any {
	vals := []any{g.ID}
	for _, field := range models.StandardFields {
		vals = append(vals, g.Field(field))
	}
	vals = append(vals, g.SourceCount, g.CreatedAt, g.UpdatedAt)
	return vals
}

// Create persists a brand new golden record.
func (r *Repository) Create(ctx context.Context, golden *models.GoldenRecord) (*models.GoldenRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "goldenrecord.Repository.Create")
	defer span.End()

	if golden.ID == "" {
		golden.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	golden.CreatedAt = now
	golden.UpdatedAt = now

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("golden_records")
	sb.Cols(columns...)
	sb.Values(r.values(golden)...)

	query, args := sb.Build()
	if _, err := database.Resolve(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create golden record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create golden record")
	}

	return golden, nil
}

// Update overwrites a golden record's field values and source count.
func (r *Repository) Update(ctx context.Context, golden *models.GoldenRecord) error {
	ctx, span := tracing.StartSpan(ctx, "goldenrecord.Repository.Update")
	defer span.End()

	golden.UpdatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("golden_records")
	assigns := make([]string, 0, len(models.StandardFields)+2)
	for _, field := range models.StandardFields {
		assigns = append(assigns, sb.Assign(field, golden.Field(field)))
	}
	assigns = append(assigns, sb.Assign("source_count", golden.SourceCount))
	assigns = append(assigns, sb.Assign("updated_at", golden.UpdatedAt))
	sb.Set(assigns...)
	sb.Where(sb.Equal("id", golden.ID))

	query, args := sb.Build()
	if _, err := database.Resolve(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to update golden record")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update golden record")
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.GoldenRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "goldenrecord.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("golden_records")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var golden models.GoldenRecord
	if err := database.Resolve(ctx, r.db).GetContext(ctx, &golden, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("golden record %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get golden record")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get golden record")
	}

	return &golden, nil
}

// ListAll returns every golden record, used by CSV export.
func (r *Repository) ListAll(ctx context.Context) ([]models.GoldenRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "goldenrecord.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("golden_records")
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var goldens []models.GoldenRecord
	if err := database.Resolve(ctx, r.db).SelectContext(ctx, &goldens, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list golden records")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list golden records")
	}

	return goldens, nil
}

// ListPage returns a page of golden records, optionally filtered by a
// case-insensitive substring match against company_name or email.
func (r *Repository) ListPage(ctx context.Context, skip, limit int, search string) ([]models.GoldenRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "goldenrecord.Repository.ListPage")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("golden_records")
	if search != "" {
		pattern := "%" + search + "%"
		sb.Where(sb.Or(
			sb.ILike("company_name", pattern),
			sb.ILike("email", pattern),
		))
	}
	sb.OrderBy("created_at ASC")
	sb.Limit(limit)
	sb.Offset(skip)

	query, args := sb.Build()
	var goldens []models.GoldenRecord
	if err := database.Resolve(ctx, r.db).SelectContext(ctx, &goldens, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list golden records page")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list golden records")
	}

	return goldens, nil
}

// Count returns the total number of golden records, for dashboard stats.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "goldenrecord.Repository.Count")
	defer span.End()

	var count int
	if err := database.Resolve(ctx, r.db).GetContext(ctx, &count, "SELECT COUNT(*) FROM golden_records"); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count golden records")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count golden records")
	}

	return count, nil
}

// FindByRecordID returns the golden record a customer record currently
// belongs to, or nil if it hasn't been linked yet.
func (r *Repository) FindByRecordID(ctx context.Context, recordID string) (*models.GoldenRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "goldenrecord.Repository.FindByRecordID")
	defer span.End()

	query := `
		SELECT gr.` + columnList("gr") + `
		FROM golden_records gr
		JOIN customer_records cr ON cr.golden_record_id = gr.id
		WHERE cr.id = $1
	`

	var golden models.GoldenRecord
	if err := database.Resolve(ctx, r.db).GetContext(ctx, &golden, query, recordID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to find golden record by record id")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to find golden record")
	}

	return &golden, nil
}

func columnList(alias string) string {
	out := alias + "." + columns[0]
	for _, c := range columns[1:] {
		out += ", " + alias + "." + c
	}
	return out
}
