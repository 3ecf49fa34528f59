package datasource

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

var columns = []string{"id", "name", "file_type", "file_path", "mapping", "status", "record_count", "created_at", "updated_at"}

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) Create(ctx context.Context, source *models.DataSource) (*models.DataSource, error) {
	ctx, span := tracing.StartSpan(ctx, "datasource.Repository.Create")
	defer span.End()

	if source.ID == "" {
		source.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	source.CreatedAt = now
	source.UpdatedAt = now
	if source.Status == "" {
		source.Status = models.DataSourceStatusUploaded
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("data_sources")
	sb.Cols(columns...)
	sb.Values(source.ID, source.Name, source.FileType, source.FilePath, source.Mapping,
		source.Status, source.RecordCount, source.CreatedAt, source.UpdatedAt)

	query, args := sb.Build()
	if _, err := database.Resolve(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to create data source")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create data source")
	}

	return source, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.DataSource, error) {
	ctx, span := tracing.StartSpan(ctx, "datasource.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("data_sources")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var source models.DataSource
	if err := database.Resolve(ctx, r.db).GetContext(ctx, &source, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("data source %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get data source")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get data source")
	}

	return &source, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]models.DataSource, error) {
	ctx, span := tracing.StartSpan(ctx, "datasource.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("data_sources")
	sb.OrderBy("created_at DESC")

	query, args := sb.Build()
	var sources []models.DataSource
	if err := database.Resolve(ctx, r.db).SelectContext(ctx, &sources, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list data sources")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list data sources")
	}

	return sources, nil
}

// Count returns the total number of data sources, for dashboard stats.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "datasource.Repository.Count")
	defer span.End()

	var count int
	if err := database.Resolve(ctx, r.db).GetContext(ctx, &count, "SELECT COUNT(*) FROM data_sources"); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count data sources")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count data sources")
	}

	return count, nil
}

// UpdateMapping persists the column-to-standard-field mapping chosen (or
// confirmed) by the caller before import runs.
func (r *Repository) UpdateMapping(ctx context.Context, id string, mapping map[string]string) error {
	ctx, span := tracing.StartSpan(ctx, "datasource.Repository.UpdateMapping")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("data_sources")
	sb.Set(
		sb.Assign("mapping", database.JSONB[map[string]string]{Data: mapping}),
		sb.Assign("status", string(models.DataSourceStatusMapped)),
		sb.Assign("updated_at", time.Now().UTC()),
	)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	if _, err := database.Resolve(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to update data source mapping")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update data source mapping")
	}

	return nil
}

// UpdateStatus transitions a source's processing status and, once records
// have been imported, its record count.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status models.DataSourceStatus, recordCount int) error {
	ctx, span := tracing.StartSpan(ctx, "datasource.Repository.UpdateStatus")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("data_sources")
	sb.Set(
		sb.Assign("status", string(status)),
		sb.Assign("record_count", recordCount),
		sb.Assign("updated_at", time.Now().UTC()),
	)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	if _, err := database.Resolve(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to update data source status")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update data source status")
	}

	return nil
}
