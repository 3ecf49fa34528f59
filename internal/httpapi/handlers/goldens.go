package handlers

import (
	"context"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/magnolia/pkg/golden"
	"github.com/Ramsey-B/magnolia/pkg/models"
)

// GoldenRepo is the slice of golden-record persistence the handler needs
// for listing, lookup, and export.
type GoldenRepo interface {
	ListPage(ctx context.Context, skip, limit int, search string) ([]models.GoldenRecord, error)
	ListAll(ctx context.Context) ([]models.GoldenRecord, error)
	Get(ctx context.Context, id string) (*models.GoldenRecord, error)
}

// GoldensHandler serves promotion, browsing, and CSV export of golden
// records.
type GoldensHandler struct {
	goldens GoldenRepo
	store   *golden.Store
}

func NewGoldensHandler(goldens GoldenRepo, store *golden.Store) *GoldensHandler {
	return &GoldensHandler{goldens: goldens, store: store}
}

func (h *GoldensHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/goldens/promote", h.promote)
	g.GET("/goldens", h.list)
	g.GET("/goldens/export.csv", h.exportCSV)
	g.GET("/goldens/:id", h.get)
}

type promoteResponse struct {
	Count int `json:"count"`
}

func (h *GoldensHandler) promote(c echo.Context) error {
	count, err := h.store.PromoteUnmatched(c.Request().Context())
	if err != nil {
		return err
	}
	return SuccessResponse(c, promoteResponse{Count: count})
}

func (h *GoldensHandler) list(c echo.Context) error {
	skip, limit := pagination(c)
	search := c.QueryParam("search")

	goldens, err := h.goldens.ListPage(c.Request().Context(), skip, limit, search)
	if err != nil {
		return err
	}
	return SuccessResponse(c, goldens)
}

func (h *GoldensHandler) get(c echo.Context) error {
	id, err := PathID(c, "id")
	if err != nil {
		return err
	}

	record, err := h.goldens.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, record)
}

// exportCSV writes every golden record as RFC 4180 CSV: id, the Standard
// Field Set in declared order, then source_count/created_at/updated_at.
func (h *GoldensHandler) exportCSV(c echo.Context) error {
	goldens, err := h.goldens.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="golden_records.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())

	header := append([]string{"id"}, models.StandardFields...)
	header = append(header, "source_count", "created_at", "updated_at")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, g := range goldens {
		row := make([]string, 0, len(header))
		row = append(row, g.ID)
		for _, field := range models.StandardFields {
			v := g.Field(field)
			if v == nil {
				row = append(row, "")
			} else {
				row = append(row, *v)
			}
		}
		row = append(row, strconv.Itoa(g.SourceCount), g.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), g.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
