package golden

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/magnolia/internal/platform/database"
	"github.com/Ramsey-B/magnolia/internal/repositories/memory"
	"github.com/Ramsey-B/magnolia/pkg/models"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func strp(s string) *string { return &s }

// fakeTx is a transaction stand-in for tests: the in-memory repositories
// never touch ctx for transaction state, so Commit and Rollback only need
// to track whether they were already called.
type fakeTx struct {
	database.Tx
	closed bool
}

func (t *fakeTx) IsOpen() bool { return !t.closed }

func (t *fakeTx) Commit(_ context.Context) error {
	t.closed = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.closed = true
	return nil
}

// fakeDB hands out a fresh fakeTx per GetTx call; every other method is
// unused by Store and left to the embedded nil database.DB.
type fakeDB struct {
	database.DB
}

func (f *fakeDB) GetTx(ctx context.Context, _ *sql.TxOptions) (context.Context, database.Tx, error) {
	return ctx, &fakeTx{}, nil
}

// noopPublisher discards every event, satisfying golden.EventPublisher
// without touching the network.
type noopPublisher struct{}

func (noopPublisher) PublishGoldenMerged(context.Context, string, string, int) {}
func (noopPublisher) PublishGoldenPromoted(context.Context, string)            {}
func (noopPublisher) PublishMatchReviewed(context.Context, string, string)    {}

// noopLockHandle and allowLocker stand in for the merge lock without a real
// Redis instance: every Acquire succeeds and Release does nothing.
type noopLockHandle struct{}

func (noopLockHandle) Release(context.Context) {}

type allowLocker struct{}

func (allowLocker) Acquire(context.Context, string, string) (LockHandle, error) {
	return noopLockHandle{}, nil
}

func newTestStore(s *memory.Store) *Store {
	return NewStore(
		&fakeDB{},
		memory.NewCandidates(s),
		memory.NewRecords(s),
		memory.NewGoldens(s),
		allowLocker{},
		noopPublisher{},
		testLogger(),
	)
}

func TestStore_Merge_CreatesNewGolden(t *testing.T) {
	s := memory.NewStore()
	a := s.PutRecord(models.CustomerRecord{CompanyName: strp("Acme"), Email: strp("jane@acme.com")})
	b := s.PutRecord(models.CustomerRecord{CompanyName: strp("Acme Corporation"), Email: strp("jane@acme.com")})
	cand := s.PutCandidate(models.MatchCandidate{RecordAID: a.ID, RecordBID: b.ID, OverallScore: 0.95})

	store := newTestStore(s)

	goldenID, err := store.Merge(context.Background(), cand.ID, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, goldenID)

	golden, err := s.GetGolden(goldenID)
	require.NoError(t, err)
	assert.Equal(t, 2, golden.SourceCount)
	assert.Equal(t, "Acme Corporation", *golden.CompanyName)

	updatedCand, err := memory.NewCandidates(s).Get(context.Background(), cand.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchCandidateStatusMerged, updatedCand.Status)
}

func TestStore_Merge_HonorsSurvivingOverride(t *testing.T) {
	s := memory.NewStore()
	a := s.PutRecord(models.CustomerRecord{CompanyName: strp("Acme")})
	b := s.PutRecord(models.CustomerRecord{CompanyName: strp("Acme Corporation")})
	cand := s.PutCandidate(models.MatchCandidate{RecordAID: a.ID, RecordBID: b.ID, OverallScore: 0.95})

	store := newTestStore(s)

	goldenID, err := store.Merge(context.Background(), cand.ID, map[string]*string{"company_name": strp("Acme LLC")})
	require.NoError(t, err)

	golden, err := s.GetGolden(goldenID)
	require.NoError(t, err)
	assert.Equal(t, "Acme LLC", *golden.CompanyName)
}

func TestStore_Merge_ExistingGoldenGrowsSourceCount(t *testing.T) {
	s := memory.NewStore()
	a := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	b := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	c := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})

	store := newTestStore(s)

	cand1 := s.PutCandidate(models.MatchCandidate{RecordAID: a.ID, RecordBID: b.ID, OverallScore: 1.0})
	goldenID, err := store.Merge(context.Background(), cand1.ID, nil)
	require.NoError(t, err)

	golden, err := s.GetGolden(goldenID)
	require.NoError(t, err)
	require.Equal(t, 2, golden.SourceCount)

	cand2 := s.PutCandidate(models.MatchCandidate{RecordAID: b.ID, RecordBID: c.ID, OverallScore: 1.0})
	golden2ID, err := store.Merge(context.Background(), cand2.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, goldenID, golden2ID)

	golden, err = s.GetGolden(goldenID)
	require.NoError(t, err)
	assert.Equal(t, 3, golden.SourceCount)
}

func TestStore_Merge_ConflictingGoldensFails(t *testing.T) {
	s := memory.NewStore()
	a := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	b := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	c := s.PutRecord(models.CustomerRecord{Email: strp("bob@widgets.com")})
	d := s.PutRecord(models.CustomerRecord{Email: strp("bob@widgets.com")})

	store := newTestStore(s)

	cand1 := s.PutCandidate(models.MatchCandidate{RecordAID: a.ID, RecordBID: b.ID, OverallScore: 1.0})
	_, err := store.Merge(context.Background(), cand1.ID, nil)
	require.NoError(t, err)

	cand2 := s.PutCandidate(models.MatchCandidate{RecordAID: c.ID, RecordBID: d.ID, OverallScore: 1.0})
	_, err = store.Merge(context.Background(), cand2.ID, nil)
	require.NoError(t, err)

	// a and c already belong to two distinct goldens; merging them directly
	// must fail without mutating either.
	conflictCand := s.PutCandidate(models.MatchCandidate{RecordAID: a.ID, RecordBID: c.ID, OverallScore: 0.9})
	_, err = store.Merge(context.Background(), conflictCand.ID, nil)
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
}

func TestStore_Merge_RejectsTerminalCandidate(t *testing.T) {
	s := memory.NewStore()
	a := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	b := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	cand := s.PutCandidate(models.MatchCandidate{RecordAID: a.ID, RecordBID: b.ID, OverallScore: 1.0, Status: models.MatchCandidateStatusRejected})

	store := newTestStore(s)

	_, err := store.Merge(context.Background(), cand.ID, nil)
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
}

func TestStore_Review_RequiresPending(t *testing.T) {
	s := memory.NewStore()
	a := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	b := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	cand := s.PutCandidate(models.MatchCandidate{RecordAID: a.ID, RecordBID: b.ID, OverallScore: 0.8, Status: models.MatchCandidateStatusMerged})

	store := newTestStore(s)

	err := store.Review(context.Background(), cand.ID, models.MatchCandidateStatusApproved, nil)
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
}

func TestStore_Review_ApprovesPendingCandidate(t *testing.T) {
	s := memory.NewStore()
	a := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	b := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	cand := s.PutCandidate(models.MatchCandidate{RecordAID: a.ID, RecordBID: b.ID, OverallScore: 0.8})

	store := newTestStore(s)

	err := store.Review(context.Background(), cand.ID, models.MatchCandidateStatusApproved, strp("looks right"))
	require.NoError(t, err)

	updated, err := memory.NewCandidates(s).Get(context.Background(), cand.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchCandidateStatusApproved, updated.Status)
}

func TestStore_PromoteUnmatched_SkipsRecordsWithPendingCandidates(t *testing.T) {
	s := memory.NewStore()
	loner := s.PutRecord(models.CustomerRecord{Email: strp("lone@acme.com")})
	a := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	b := s.PutRecord(models.CustomerRecord{Email: strp("jane@acme.com")})
	s.PutCandidate(models.MatchCandidate{RecordAID: a.ID, RecordBID: b.ID, OverallScore: 0.9})

	store := newTestStore(s)

	count, err := store.PromoteUnmatched(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	golden, err := s.GetGolden(*mustField(t, s, loner.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, golden.SourceCount)
}

func TestStore_PromoteUnmatched_IsIdempotent(t *testing.T) {
	s := memory.NewStore()
	s.PutRecord(models.CustomerRecord{Email: strp("a@acme.com")})
	s.PutRecord(models.CustomerRecord{Email: strp("b@acme.com")})

	store := newTestStore(s)

	first, err := store.PromoteUnmatched(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	second, err := store.PromoteUnmatched(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

func mustField(t *testing.T, s *memory.Store, recordID string) *string {
	t.Helper()
	rec, err := memory.NewRecords(s).Get(context.Background(), recordID)
	require.NoError(t, err)
	return rec.GoldenRecordID
}
