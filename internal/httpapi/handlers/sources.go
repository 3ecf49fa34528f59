package handlers

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/magnolia/internal/ingestion"
	"github.com/Ramsey-B/magnolia/pkg/models"
)

// DataSourceRepo is the slice of data-source persistence the handler needs.
type DataSourceRepo interface {
	Create(ctx context.Context, source *models.DataSource) (*models.DataSource, error)
	Get(ctx context.Context, id string) (*models.DataSource, error)
	UpdateMapping(ctx context.Context, id string, mapping map[string]string) error
	UpdateStatus(ctx context.Context, id string, status models.DataSourceStatus, recordCount int) error
}

// CustomerRecordWriter is the slice of customer-record persistence the
// handler needs to materialize an import.
type CustomerRecordWriter interface {
	CreateBatch(ctx context.Context, records []*models.CustomerRecord) error
}

// SourcesHandler serves the upload/preview/auto-map/import ingestion flow.
type SourcesHandler struct {
	sources   DataSourceRepo
	records   CustomerRecordWriter
	uploadDir string
}

func NewSourcesHandler(sources DataSourceRepo, records CustomerRecordWriter, uploadDir string) *SourcesHandler {
	return &SourcesHandler{sources: sources, records: records, uploadDir: uploadDir}
}

func (h *SourcesHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/sources/upload", h.upload)
	g.GET("/sources/:id/preview", h.preview)
	g.GET("/sources/:id/auto-map", h.autoMapColumns)
	g.POST("/sources/:id/import", h.importSource)
}

func (h *SourcesHandler) upload(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return BadRequest("file is required")
	}

	ext, supported := ingestion.SupportedExt(fileHeader.Filename)
	if !supported {
		return ingestion.ErrUnsupportedFileType(ext)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return BadRequest("could not read uploaded file")
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return err
	}

	storedName := uuid.New().String() + ext
	destPath := filepath.Join(h.uploadDir, storedName)

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}

	source := &models.DataSource{
		Name:     fileHeader.Filename,
		FileType: ext,
		FilePath: destPath,
		Status:   models.DataSourceStatusUploaded,
	}
	created, err := h.sources.Create(ctx, source)
	if err != nil {
		return err
	}

	return CreatedResponse(c, created)
}

func (h *SourcesHandler) preview(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := PathID(c, "id")
	if err != nil {
		return err
	}

	source, err := h.sources.Get(ctx, id)
	if err != nil {
		return err
	}

	preview, err := ingestion.PreviewFile(source.FilePath, ingestion.DefaultPreviewRows)
	if err != nil {
		return err
	}

	return SuccessResponse(c, preview)
}

func (h *SourcesHandler) autoMapColumns(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := PathID(c, "id")
	if err != nil {
		return err
	}

	source, err := h.sources.Get(ctx, id)
	if err != nil {
		return err
	}

	preview, err := ingestion.PreviewFile(source.FilePath, 1)
	if err != nil {
		return err
	}

	mapping := ingestion.AutoMapColumns(preview.Columns)
	return SuccessResponse(c, mapping)
}

type importSourceRequest struct {
	Mapping map[string]string `json:"mapping" validate:"required"`
}

type importSourceResponse struct {
	RecordCount int `json:"record_count"`
}

func (h *SourcesHandler) importSource(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := PathID(c, "id")
	if err != nil {
		return err
	}

	var req importSourceRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := ValidateStruct(req); err != nil {
		return err
	}
	if err := ingestion.ValidateMapping(req.Mapping); err != nil {
		return err
	}

	source, err := h.sources.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := h.sources.UpdateMapping(ctx, id, req.Mapping); err != nil {
		return err
	}

	result, err := ingestion.ImportFile(source.FilePath, id, req.Mapping)
	if err != nil {
		_ = h.sources.UpdateStatus(ctx, id, models.DataSourceStatusFailed, 0)
		return err
	}

	if err := h.records.CreateBatch(ctx, result.Records); err != nil {
		_ = h.sources.UpdateStatus(ctx, id, models.DataSourceStatusFailed, 0)
		return err
	}

	if err := h.sources.UpdateStatus(ctx, id, models.DataSourceStatusProcessed, len(result.Records)); err != nil {
		return err
	}

	return SuccessResponse(c, importSourceResponse{RecordCount: len(result.Records)})
}
