package matching

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/magnolia/internal/repositories/memory"
	"github.com/Ramsey-B/magnolia/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func strp(s string) *string { return &s }

func TestEngine_Run_EmitsAboveThreshold(t *testing.T) {
	store := memory.NewStore()
	a := store.PutRecord(models.CustomerRecord{SourceID: "s1", Email: strp("jane@acme.com")})
	b := store.PutRecord(models.CustomerRecord{SourceID: "s2", Email: strp("jane@acme.com")})

	engine := NewEngine(testLogger(), memory.NewRecords(store), memory.NewCandidates(store))

	count, err := engine.Run(context.Background(), nil, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	pairs, err := memory.NewCandidates(store).ExistingPairs(context.Background())
	require.NoError(t, err)
	assert.True(t, pairs[models.PairKey(a.ID, b.ID)])
}

func TestEngine_Run_BelowThresholdNotEmitted(t *testing.T) {
	store := memory.NewStore()
	store.PutRecord(models.CustomerRecord{SourceID: "s1", CompanyName: strp("Acme Corp")})
	store.PutRecord(models.CustomerRecord{SourceID: "s2", CompanyName: strp("Totally Unrelated Widgets")})

	engine := NewEngine(testLogger(), memory.NewRecords(store), memory.NewCandidates(store))

	count, err := engine.Run(context.Background(), nil, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestEngine_Run_ScopedToSourceSkipsSameSourcePairs(t *testing.T) {
	store := memory.NewStore()
	// Two records in the same source with identical email: scoped matching
	// must never pair a source against itself.
	store.PutRecord(models.CustomerRecord{SourceID: "s1", Email: strp("jane@acme.com")})
	store.PutRecord(models.CustomerRecord{SourceID: "s1", Email: strp("jane@acme.com")})
	store.PutRecord(models.CustomerRecord{SourceID: "s2", Email: strp("jane@acme.com")})

	engine := NewEngine(testLogger(), memory.NewRecords(store), memory.NewCandidates(store))

	sourceID := "s1"
	count, err := engine.Run(context.Background(), &sourceID, DefaultConfig())
	require.NoError(t, err)
	// Only the two cross-source pairs (s1[0]-s2, s1[1]-s2) can be emitted;
	// the s1-s1 pair is never generated.
	assert.Equal(t, 2, count)
}

func TestEngine_Run_DedupsAgainstExistingCandidates(t *testing.T) {
	store := memory.NewStore()
	a := store.PutRecord(models.CustomerRecord{SourceID: "s1", Email: strp("jane@acme.com")})
	b := store.PutRecord(models.CustomerRecord{SourceID: "s2", Email: strp("jane@acme.com")})
	store.PutCandidate(models.MatchCandidate{RecordAID: a.ID, RecordBID: b.ID, OverallScore: 1.0})

	engine := NewEngine(testLogger(), memory.NewRecords(store), memory.NewCandidates(store))

	count, err := engine.Run(context.Background(), nil, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestEngine_Run_NoRecordsIsNoop(t *testing.T) {
	store := memory.NewStore()
	engine := NewEngine(testLogger(), memory.NewRecords(store), memory.NewCandidates(store))

	count, err := engine.Run(context.Background(), nil, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestEngine_Run_DeterministicCandidateSet(t *testing.T) {
	store := memory.NewStore()
	store.PutRecord(models.CustomerRecord{SourceID: "s1", Email: strp("jane@acme.com"), CompanyName: strp("Acme Corp")})
	store.PutRecord(models.CustomerRecord{SourceID: "s2", Email: strp("jane@acme.com"), CompanyName: strp("Acme Corporation")})
	store.PutRecord(models.CustomerRecord{SourceID: "s3", Email: strp("bob@widgets.com"), CompanyName: strp("Widgets Inc")})

	engine1 := NewEngine(testLogger(), memory.NewRecords(store), memory.NewCandidates(store))
	count1, err := engine1.Run(context.Background(), nil, DefaultConfig())
	require.NoError(t, err)

	pairs1, err := memory.NewCandidates(store).ExistingPairs(context.Background())
	require.NoError(t, err)

	store2 := memory.NewStore()
	store2.PutRecord(models.CustomerRecord{SourceID: "s1", Email: strp("jane@acme.com"), CompanyName: strp("Acme Corp")})
	store2.PutRecord(models.CustomerRecord{SourceID: "s2", Email: strp("jane@acme.com"), CompanyName: strp("Acme Corporation")})
	store2.PutRecord(models.CustomerRecord{SourceID: "s3", Email: strp("bob@widgets.com"), CompanyName: strp("Widgets Inc")})

	engine2 := NewEngine(testLogger(), memory.NewRecords(store2), memory.NewCandidates(store2))
	count2, err := engine2.Run(context.Background(), nil, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, count1, count2)
	assert.Equal(t, len(pairs1), count2)
}

func TestEngine_Run_RejectsThresholdOutOfRange(t *testing.T) {
	store := memory.NewStore()
	engine := NewEngine(testLogger(), memory.NewRecords(store), memory.NewCandidates(store))

	cfg := DefaultConfig()
	cfg.Threshold = 1.5
	_, err := engine.Run(context.Background(), nil, cfg)
	require.Error(t, err)

	cfg.Threshold = -0.1
	_, err = engine.Run(context.Background(), nil, cfg)
	require.Error(t, err)
}

func TestEngine_Run_RejectsNonPositiveWeightSum(t *testing.T) {
	store := memory.NewStore()
	engine := NewEngine(testLogger(), memory.NewRecords(store), memory.NewCandidates(store))

	cfg := DefaultConfig()
	cfg.Weights = map[string]float64{"email": 0, "company_name": -1}
	_, err := engine.Run(context.Background(), nil, cfg)
	require.Error(t, err)
}
