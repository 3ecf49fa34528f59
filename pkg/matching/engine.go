// Package matching implements the pairwise candidate-generation engine: it
// enumerates record pairs, scores them in parallel via the record
// comparator, and persists the pairs that clear threshold as MatchCandidates.
package matching

import (
	"context"
	"net/http"
	"sync"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/magnolia/internal/platform/database"
	"github.com/Ramsey-B/magnolia/internal/platform/tracing"
	"github.com/Ramsey-B/magnolia/pkg/compare"
	"github.com/Ramsey-B/magnolia/pkg/models"
)

// DefaultThreshold is the minimum overall score at which a pair is emitted.
const DefaultThreshold = 0.75

// DefaultWorkerCount bounds the parallel comparator pool when the caller
// doesn't override it.
const DefaultWorkerCount = 4

// RecordStore is the narrow slice of customer-record persistence the
// engine needs, letting it run against either the real repository or an
// in-memory stand-in during tests.
type RecordStore interface {
	ListAll(ctx context.Context) ([]models.CustomerRecord, error)
	ListBySource(ctx context.Context, sourceID string) ([]models.CustomerRecord, error)
}

// CandidateStore is the slice of match-candidate persistence the engine
// needs to dedup against history and commit new candidates.
type CandidateStore interface {
	ExistingPairs(ctx context.Context) (map[string]bool, error)
	CreateBatch(ctx context.Context, candidates []*models.MatchCandidate) error
}

// Config controls one matching run.
type Config struct {
	Threshold   float64
	WorkerCount int
	Weights     map[string]float64
}

func DefaultConfig() Config {
	return Config{
		Threshold:   DefaultThreshold,
		WorkerCount: DefaultWorkerCount,
	}
}

// Validate rejects an out-of-range threshold or a weight override that
// doesn't sum to something positive (a zero or negative sum would make
// every pair score 0, silently matching nothing instead of erroring).
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "threshold %v out of [0,1]", c.Threshold)
	}
	if c.Weights != nil {
		var sum float64
		for _, w := range c.Weights {
			sum += w
		}
		if sum <= 0 {
			return httperror.NewHTTPError(http.StatusBadRequest, "field_weights must sum to a positive value")
		}
	}
	return nil
}

// Engine generates and scores candidate pairs.
type Engine struct {
	logger     ectologger.Logger
	records    RecordStore
	candidates CandidateStore
	comparator *compare.RecordComparator
}

func NewEngine(logger ectologger.Logger, records RecordStore, candidates CandidateStore) *Engine {
	return &Engine{
		logger:     logger,
		records:    records,
		candidates: candidates,
		comparator: compare.NewRecordComparator(),
	}
}

type pair struct {
	a, b *models.CustomerRecord
}

type scoredPair struct {
	pair
	result compare.Result
}

// Run scopes and scores the candidate universe per the pair-generation
// rules (cross-source-only when sourceID is set, full unordered pairs
// otherwise) and persists every pair at or above cfg.Threshold, returning
// the number emitted.
func (e *Engine) Run(ctx context.Context, sourceID *string, cfg Config) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.Run")
	defer span.End()

	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}

	log := e.logger.WithContext(ctx)

	pairs, err := e.generatePairs(ctx, sourceID)
	if err != nil {
		return 0, err
	}
	if len(pairs) == 0 {
		return 0, nil
	}

	existing, err := e.candidates.ExistingPairs(ctx)
	if err != nil {
		return 0, err
	}

	pending := make([]pair, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		key := models.PairKey(p.a.ID, p.b.ID)
		if existing[key] || seen[key] {
			continue
		}
		seen[key] = true
		pending = append(pending, p)
	}

	scored := e.scoreInParallel(ctx, pending, cfg)

	toCreate := make([]*models.MatchCandidate, 0)
	for _, sp := range scored {
		if sp.result.OverallScore < cfg.Threshold {
			continue
		}
		toCreate = append(toCreate, &models.MatchCandidate{
			RecordAID:    sp.a.ID,
			RecordBID:    sp.b.ID,
			OverallScore: sp.result.OverallScore,
			FieldScores:  database.JSONB[map[string]float64]{Data: sp.result.FieldScores},
			MatchMethod:  "rule_based_v1",
			Status:       models.MatchCandidateStatusPending,
		})
	}

	if len(toCreate) > 0 {
		if err := e.candidates.CreateBatch(ctx, toCreate); err != nil {
			return 0, err
		}
	}

	log.WithFields(map[string]any{
		"pairs_evaluated": len(pending),
		"match_count":     len(toCreate),
	}).Info("matching run complete")

	return len(toCreate), nil
}

// generatePairs builds the candidate-pair universe.
func (e *Engine) generatePairs(ctx context.Context, sourceID *string) ([]pair, error) {
	if sourceID != nil {
		scoped, err := e.records.ListBySource(ctx, *sourceID)
		if err != nil {
			return nil, err
		}
		all, err := e.records.ListAll(ctx)
		if err != nil {
			return nil, err
		}

		pairs := make([]pair, 0, len(scoped)*len(all))
		for i := range scoped {
			a := scoped[i]
			for j := range all {
				b := all[j]
				if b.SourceID == *sourceID {
					continue
				}
				pairs = append(pairs, pair{a: &a, b: &b})
			}
		}
		return pairs, nil
	}

	all, err := e.records.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	pairs := make([]pair, 0, len(all)*(len(all)-1)/2)
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			pairs = append(pairs, pair{a: &a, b: &b})
		}
	}
	return pairs, nil
}

// scoreInParallel runs the record comparator over every pair across a
// worker pool. Emission ordering carries no semantic meaning, so results
// return in completion order.
func (e *Engine) scoreInParallel(ctx context.Context, pairs []pair, cfg Config) []scoredPair {
	workers := cfg.WorkerCount
	if workers > len(pairs) {
		workers = len(pairs)
	}
	if workers < 1 {
		workers = 1
	}

	work := make(chan pair, len(pairs))
	results := make(chan scoredPair, len(pairs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range work {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results <- scoredPair{pair: p, result: e.comparator.Compare(p.a, p.b, cfg.Weights)}
			}
		}()
	}

	for _, p := range pairs {
		work <- p
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]scoredPair, 0, len(pairs))
	for r := range results {
		out = append(out, r)
	}
	return out
}
