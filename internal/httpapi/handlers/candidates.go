package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/magnolia/pkg/golden"
	"github.com/Ramsey-B/magnolia/pkg/models"
)

// CandidateRepo is the slice of match-candidate persistence the handler
// needs to list and enrich the reviewer queue.
type CandidateRepo interface {
	ListFiltered(ctx context.Context, status string, skip, limit int) ([]models.MatchCandidate, error)
}

// RecordLookup enriches a candidate pair with its two full customer
// records for display.
type RecordLookup interface {
	Get(ctx context.Context, id string) (*models.CustomerRecord, error)
}

// CandidatesHandler serves the reviewer queue and the review/merge actions.
type CandidatesHandler struct {
	candidates CandidateRepo
	records    RecordLookup
	store      *golden.Store
}

func NewCandidatesHandler(candidates CandidateRepo, records RecordLookup, store *golden.Store) *CandidatesHandler {
	return &CandidatesHandler{candidates: candidates, records: records, store: store}
}

func (h *CandidatesHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/candidates", h.list)
	g.POST("/candidates/:id/review", h.review)
	g.POST("/candidates/:id/merge", h.merge)
}

// enrichedCandidate pairs a MatchCandidate with its two full records so
// reviewers can see both sides of the pair without a second round trip.
type enrichedCandidate struct {
	models.MatchCandidate
	RecordA *models.CustomerRecord `json:"record_a"`
	RecordB *models.CustomerRecord `json:"record_b"`
}

func (h *CandidatesHandler) list(c echo.Context) error {
	ctx := c.Request().Context()

	status := c.QueryParam("status")
	skip, limit := pagination(c)

	candidates, err := h.candidates.ListFiltered(ctx, status, skip, limit)
	if err != nil {
		return err
	}

	enriched := make([]enrichedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		recordA, err := h.records.Get(ctx, candidate.RecordAID)
		if err != nil {
			return err
		}
		recordB, err := h.records.Get(ctx, candidate.RecordBID)
		if err != nil {
			return err
		}
		enriched = append(enriched, enrichedCandidate{MatchCandidate: candidate, RecordA: recordA, RecordB: recordB})
	}

	return SuccessResponse(c, enriched)
}

type reviewCandidateRequest struct {
	Status string  `json:"status" validate:"required,oneof=approved rejected"`
	Notes  *string `json:"notes,omitempty"`
}

func (h *CandidatesHandler) review(c echo.Context) error {
	id, err := PathID(c, "id")
	if err != nil {
		return err
	}

	var req reviewCandidateRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := ValidateStruct(req); err != nil {
		return err
	}

	var status models.MatchCandidateStatus
	switch req.Status {
	case "approved":
		status = models.MatchCandidateStatusApproved
	case "rejected":
		status = models.MatchCandidateStatusRejected
	default:
		return BadRequest(`status must be "approved" or "rejected"`)
	}

	if err := h.store.Review(c.Request().Context(), id, status, req.Notes); err != nil {
		return err
	}

	return NoContentResponse(c)
}

type mergeCandidateRequest struct {
	SurvivingValues map[string]*string `json:"surviving_values,omitempty"`
}

type mergeCandidateResponse struct {
	GoldenRecordID string `json:"golden_record_id"`
}

func (h *CandidatesHandler) merge(c echo.Context) error {
	id, err := PathID(c, "id")
	if err != nil {
		return err
	}

	var req mergeCandidateRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}

	goldenID, err := h.store.Merge(c.Request().Context(), id, req.SurvivingValues)
	if err != nil {
		return err
	}

	return SuccessResponse(c, mergeCandidateResponse{GoldenRecordID: goldenID})
}
