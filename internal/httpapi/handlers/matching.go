package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/magnolia/pkg/matching"
)

// MatchingHandler exposes the matching engine over HTTP.
type MatchingHandler struct {
	engine *matching.Engine
}

func NewMatchingHandler(engine *matching.Engine) *MatchingHandler {
	return &MatchingHandler{engine: engine}
}

func (h *MatchingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/matching/run", h.runMatching)
}

type runMatchingRequest struct {
	SourceID     *string            `json:"source_id,omitempty"`
	Threshold    float64            `json:"threshold,omitempty"`
	FieldWeights map[string]float64 `json:"field_weights,omitempty"`
}

type runMatchingResponse struct {
	MatchCount int `json:"match_count"`
}

func (h *MatchingHandler) runMatching(c echo.Context) error {
	var req runMatchingRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}

	cfg := matching.DefaultConfig()
	if req.Threshold != 0 {
		cfg.Threshold = req.Threshold
	}
	if len(req.FieldWeights) > 0 {
		cfg.Weights = req.FieldWeights
	}

	count, err := h.engine.Run(c.Request().Context(), req.SourceID, cfg)
	if err != nil {
		return err
	}

	return SuccessResponse(c, runMatchingResponse{MatchCount: count})
}
