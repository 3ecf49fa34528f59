// Package memory provides in-memory stand-ins for the customer-record,
// match-candidate, and golden-record repositories, letting the matching
// engine and the golden record store be exercised in tests without a
// database. Per entity kind it exposes a thin adapter (Records,
// Candidates, Goldens) over one shared, mutex-guarded Store, since the
// matching engine and the golden record store each expect a method named
// Get with a different return type.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Ramsey-B/magnolia/pkg/models"
)

// Store holds every entity kind behind one mutex.
type Store struct {
	mu         sync.Mutex
	records    map[string]models.CustomerRecord
	candidates map[string]models.MatchCandidate
	goldens    map[string]models.GoldenRecord
}

func NewStore() *Store {
	return &Store{
		records:    make(map[string]models.CustomerRecord),
		candidates: make(map[string]models.MatchCandidate),
		goldens:    make(map[string]models.GoldenRecord),
	}
}

// PutRecord seeds a customer record, assigning an ID if unset.
func (s *Store) PutRecord(rec models.CustomerRecord) models.CustomerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	s.records[rec.ID] = rec
	return rec
}

// PutCandidate seeds a match candidate, assigning an ID and PENDING status
// if unset.
func (s *Store) PutCandidate(c models.MatchCandidate) models.MatchCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = models.MatchCandidateStatusPending
	}
	s.candidates[c.ID] = c
	return c
}

// CountGoldens reports how many golden records currently exist.
func (s *Store) CountGoldens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.goldens)
}

// GetGolden returns a golden record by ID.
func (s *Store) GetGolden(id string) (*models.GoldenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goldens[id]
	if !ok {
		return nil, fmt.Errorf("golden record %s not found", id)
	}
	return &g, nil
}

// Records adapts Store to matching.RecordStore and golden.RecordRepo.
type Records struct{ s *Store }

func NewRecords(s *Store) *Records { return &Records{s: s} }

func (r *Records) Get(_ context.Context, id string) (*models.CustomerRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.records[id]
	if !ok {
		return nil, fmt.Errorf("customer record %s not found", id)
	}
	return &rec, nil
}

func (r *Records) ListAll(_ context.Context) ([]models.CustomerRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]models.CustomerRecord, 0, len(r.s.records))
	for _, rec := range r.s.records {
		out = append(out, rec)
	}
	return out, nil
}

func (r *Records) ListBySource(_ context.Context, sourceID string) ([]models.CustomerRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]models.CustomerRecord, 0)
	for _, rec := range r.s.records {
		if rec.SourceID == sourceID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *Records) ListUnpromoted(_ context.Context) ([]models.CustomerRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]models.CustomerRecord, 0)
	for _, rec := range r.s.records {
		if rec.GoldenRecordID == nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *Records) SetGoldenRecordID(_ context.Context, id string, goldenRecordID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.records[id]
	if !ok {
		return fmt.Errorf("customer record %s not found", id)
	}
	gid := goldenRecordID
	rec.GoldenRecordID = &gid
	r.s.records[id] = rec
	return nil
}

// Candidates adapts Store to matching.CandidateStore and
// golden.CandidateRepo.
type Candidates struct{ s *Store }

func NewCandidates(s *Store) *Candidates { return &Candidates{s: s} }

func (c *Candidates) ExistingPairs(_ context.Context) (map[string]bool, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	out := make(map[string]bool, len(c.s.candidates))
	for _, cand := range c.s.candidates {
		out[models.PairKey(cand.RecordAID, cand.RecordBID)] = true
	}
	return out, nil
}

func (c *Candidates) CreateBatch(_ context.Context, cands []*models.MatchCandidate) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	for _, cand := range cands {
		if cand.ID == "" {
			cand.ID = uuid.New().String()
		}
		c.s.candidates[cand.ID] = *cand
	}
	return nil
}

func (c *Candidates) Get(_ context.Context, id string) (*models.MatchCandidate, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	cand, ok := c.s.candidates[id]
	if !ok {
		return nil, fmt.Errorf("match candidate %s not found", id)
	}
	return &cand, nil
}

func (c *Candidates) ListByRecord(_ context.Context, recordID string, status string) ([]models.MatchCandidate, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	out := make([]models.MatchCandidate, 0)
	for _, cand := range c.s.candidates {
		if cand.RecordAID != recordID && cand.RecordBID != recordID {
			continue
		}
		if status != "" && string(cand.Status) != status {
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}

func (c *Candidates) UpdateStatus(_ context.Context, id string, status models.MatchCandidateStatus, notes *string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	cand, ok := c.s.candidates[id]
	if !ok {
		return fmt.Errorf("match candidate %s not found", id)
	}
	cand.Status = status
	cand.Notes = notes
	c.s.candidates[id] = cand
	return nil
}

// Goldens adapts Store to golden.GoldenRepo.
type Goldens struct{ s *Store }

func NewGoldens(s *Store) *Goldens { return &Goldens{s: s} }

func (g *Goldens) Create(_ context.Context, golden *models.GoldenRecord) (*models.GoldenRecord, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()

	if golden.ID == "" {
		golden.ID = uuid.New().String()
	}
	g.s.goldens[golden.ID] = *golden
	return golden, nil
}

func (g *Goldens) Update(_ context.Context, golden *models.GoldenRecord) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()

	if _, ok := g.s.goldens[golden.ID]; !ok {
		return fmt.Errorf("golden record %s not found", golden.ID)
	}
	g.s.goldens[golden.ID] = *golden
	return nil
}

func (g *Goldens) FindByRecordID(_ context.Context, recordID string) (*models.GoldenRecord, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()

	rec, ok := g.s.records[recordID]
	if !ok || rec.GoldenRecordID == nil {
		return nil, nil
	}
	golden, ok := g.s.goldens[*rec.GoldenRecordID]
	if !ok {
		return nil, nil
	}
	return &golden, nil
}
