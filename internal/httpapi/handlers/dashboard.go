package handlers

import (
	"context"
	"math"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/magnolia/pkg/models"
)

// SourceCounter, RecordCounter, CandidateCounter and GoldenCounter are the
// narrow count-only slices of each repository the dashboard rollup needs.
type SourceCounter interface {
	Count(ctx context.Context) (int, error)
}

type RecordCounter interface {
	Count(ctx context.Context) (int, error)
}

type CandidateCounter interface {
	CountByStatus(ctx context.Context, status string) (int, error)
}

type GoldenCounter interface {
	Count(ctx context.Context) (int, error)
}

// DashboardHandler serves the statistics rollup.
type DashboardHandler struct {
	sources    SourceCounter
	records    RecordCounter
	candidates CandidateCounter
	goldens    GoldenCounter
}

func NewDashboardHandler(sources SourceCounter, records RecordCounter, candidates CandidateCounter, goldens GoldenCounter) *DashboardHandler {
	return &DashboardHandler{sources: sources, records: records, candidates: candidates, goldens: goldens}
}

func (h *DashboardHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard/stats", h.stats)
}

type dashboardStats struct {
	TotalSources         int     `json:"total_sources"`
	TotalRecords         int     `json:"total_records"`
	TotalMatchesPending  int     `json:"total_matches_pending"`
	TotalMatchesApproved int     `json:"total_matches_approved"`
	TotalMatchesRejected int     `json:"total_matches_rejected"`
	TotalGoldenRecords   int     `json:"total_golden_records"`
	DuplicateRate        float64 `json:"duplicate_rate"`
}

func (h *DashboardHandler) stats(c echo.Context) error {
	ctx := c.Request().Context()

	totalSources, err := h.sources.Count(ctx)
	if err != nil {
		return err
	}
	totalRecords, err := h.records.Count(ctx)
	if err != nil {
		return err
	}
	pending, err := h.candidates.CountByStatus(ctx, string(models.MatchCandidateStatusPending))
	if err != nil {
		return err
	}
	approved, err := h.candidates.CountByStatus(ctx, string(models.MatchCandidateStatusApproved))
	if err != nil {
		return err
	}
	rejected, err := h.candidates.CountByStatus(ctx, string(models.MatchCandidateStatusRejected))
	if err != nil {
		return err
	}
	totalGoldens, err := h.goldens.Count(ctx)
	if err != nil {
		return err
	}
	totalMatches, err := h.candidates.CountByStatus(ctx, "")
	if err != nil {
		return err
	}

	var duplicateRate float64
	if totalRecords > 0 {
		duplicateRate = math.Round(float64(totalMatches)/float64(totalRecords)*100*10) / 10
	}

	return SuccessResponse(c, dashboardStats{
		TotalSources:         totalSources,
		TotalRecords:         totalRecords,
		TotalMatchesPending:  pending,
		TotalMatchesApproved: approved,
		TotalMatchesRejected: rejected,
		TotalGoldenRecords:   totalGoldens,
		DuplicateRate:        duplicateRate,
	})
}
