package storage

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/chordid-mcp/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	return storage
}

func newRecord(input, outcome, symbol string, at time.Time) *Identification {
	return &Identification{
		Input:          input,
		InputHash:      sha256.Sum256([]byte(input)),
		Outcome:        outcome,
		Symbol:         symbol,
		CandidateCount: 1,
		PitchClasses:   "0,4,7",
		CreatedAt:      at,
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	assert.NotNil(t, storage)
	assert.NotNil(t, storage.db)
}

func TestClose(t *testing.T) {
	storage := setupTestDB(t)
	err := storage.Close()
	assert.NoError(t, err)
}

func TestRecordIdentification(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	rec := newRecord("C E G", "matched", "C", time.Time{})
	rec.Quality = "major triad"
	rec.PreferFlats = true

	err := storage.RecordIdentification(ctx, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())

	got, err := storage.GetIdentification(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "C E G", got.Input)
	assert.Equal(t, rec.InputHash, got.InputHash)
	assert.Equal(t, "matched", got.Outcome)
	assert.Equal(t, "C", got.Symbol)
	assert.Equal(t, "major triad", got.Quality)
	assert.Equal(t, "0,4,7", got.PitchClasses)
	assert.True(t, got.PreferFlats)
	assert.Nil(t, got.ProgressionID)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))

	// Duplicate ID - should fail
	dup := newRecord("C E G", "matched", "C", time.Time{})
	dup.ID = rec.ID
	err = storage.RecordIdentification(ctx, dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRecordIdentification_RequiresOutcome(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	err := storage.RecordIdentification(context.Background(), newRecord("C E G", "", "", time.Time{}))
	assert.Error(t, err)
}

func TestGetIdentification_NotFound(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	_, err := storage.GetIdentification(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListIdentifications(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	inputs := []struct {
		input, outcome, symbol string
	}{
		{"C E G", "matched", "C"},
		{"C C# D", "unmatched", ""},
		{"D F# A C", "matched", "D7"},
		{"A", "insufficient_notes", ""},
	}
	for i, in := range inputs {
		rec := newRecord(in.input, in.outcome, in.symbol, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, storage.RecordIdentification(ctx, rec))
	}

	recs, err := storage.ListIdentifications(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, "A", recs[0].Input)
	assert.Equal(t, "C E G", recs[3].Input)

	recs, err = storage.ListIdentifications(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "D F# A C", recs[1].Input)

	recs, err = storage.ListIdentifications(ctx, ListFilter{Outcome: "matched"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "D7", recs[0].Symbol)
	assert.Equal(t, "C", recs[1].Symbol)
}

func TestListIdentifications_SameTimestamp(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, storage.RecordIdentification(ctx, newRecord("first", "no_notes", "", at)))
	require.NoError(t, storage.RecordIdentification(ctx, newRecord("second", "no_notes", "", at)))

	recs, err := storage.ListIdentifications(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "second", recs[0].Input)
}

func TestListByProgression(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	progressionID := "prog-1"
	for i, input := range []string{"G B D F", "C E G", "A C E"} {
		rec := newRecord(input, "matched", "", time.Time{})
		rec.ProgressionID = &progressionID
		rec.Position = 2 - i
		require.NoError(t, storage.RecordIdentification(ctx, rec))
	}
	require.NoError(t, storage.RecordIdentification(ctx, newRecord("F A C", "matched", "F", time.Time{})))

	recs, err := storage.ListByProgression(ctx, progressionID)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "A C E", recs[0].Input)
	assert.Equal(t, "C E G", recs[1].Input)
	assert.Equal(t, "G B D F", recs[2].Input)
	for i, rec := range recs {
		require.NotNil(t, rec.ProgressionID)
		assert.Equal(t, progressionID, *rec.ProgressionID)
		assert.Equal(t, i, rec.Position)
	}

	recs, err = storage.ListByProgression(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDeleteBefore(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, storage.RecordIdentification(ctx, newRecord("C E G", "matched", "C", base.AddDate(0, 0, i))))
	}

	deleted, err := storage.DeleteBefore(ctx, base.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	recs, err := storage.ListIdentifications(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestGetStatus(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	status, err := storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalIdentifications)
	assert.True(t, status.FirstAt.IsZero())
	assert.True(t, status.Health.DatabaseAccessible)
	assert.True(t, status.Health.SchemaCurrent)
	assert.Equal(t, CurrentSchemaVersion, status.SchemaVersion)

	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	last := first.Add(2 * time.Hour)
	progressionID := "prog-1"
	recs := []*Identification{
		newRecord("C E G", "matched", "C", first),
		newRecord("C E G", "matched", "C", first.Add(time.Hour)),
		newRecord("C C# D", "unmatched", "", last),
	}
	recs[2].ProgressionID = &progressionID
	for _, rec := range recs {
		require.NoError(t, storage.RecordIdentification(ctx, rec))
	}

	status, err = storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalIdentifications)
	assert.Equal(t, 2, status.DistinctInputs)
	assert.Equal(t, 1, status.Progressions)
	assert.Equal(t, map[string]int{"matched": 2, "unmatched": 1}, status.ByOutcome)
	assert.True(t, first.Equal(status.FirstAt))
	assert.True(t, last.Equal(status.LastAt))
	assert.Greater(t, status.DBSizeBytes, int64(0))
}

func TestBeginTx_CommitRollback(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	ctx := context.Background()

	// Test commit
	tx, err := storage.BeginTx(ctx)
	require.NoError(t, err)

	committed := newRecord("C E G", "matched", "C", time.Time{})
	err = tx.RecordIdentification(ctx, committed)
	require.NoError(t, err)

	got, err := tx.GetIdentification(ctx, committed.ID)
	require.NoError(t, err)
	assert.Equal(t, "C E G", got.Input)

	status, err := tx.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalIdentifications)

	err = tx.Commit()
	require.NoError(t, err)

	_, err = storage.GetIdentification(ctx, committed.ID)
	require.NoError(t, err)

	// Test rollback
	tx, err = storage.BeginTx(ctx)
	require.NoError(t, err)

	rolledBack := newRecord("A C E", "matched", "Am", time.Time{})
	err = tx.RecordIdentification(ctx, rolledBack)
	require.NoError(t, err)

	err = tx.Rollback()
	require.NoError(t, err)

	_, err = storage.GetIdentification(ctx, rolledBack.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTx_NestedAndClose(t *testing.T) {
	storage := setupTestDB(t)
	defer storage.Close()

	tx, err := storage.BeginTx(context.Background())
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.BeginTx(context.Background())
	assert.Error(t, err)
	assert.NoError(t, tx.Close())
}

func TestFromTypesIdentification(t *testing.T) {
	id := &types.Identification{
		ID:           "abc",
		Input:        "D F# A C",
		PitchClasses: types.PitchClassSet{2, 6, 9, 0},
		Outcome:      types.OutcomeMatched,
		Candidates: []types.RankedCandidate{{
			MatchCandidate: types.MatchCandidate{Root: 2, Quality: "dominant 7th", Suffix: "7"},
			Rank:           1,
			Score:          3,
		}},
		TotalCandidates: 1,
		SlashChord:      "D/C",
	}
	hash := sha256.Sum256([]byte(id.Input))

	rec := FromTypesIdentification(id, hash)
	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, "matched", rec.Outcome)
	assert.Equal(t, "D7", rec.Symbol)
	assert.Equal(t, "dominant 7th", rec.Quality)
	assert.Equal(t, "D/C", rec.SlashChord)
	assert.Equal(t, "2,6,9,0", rec.PitchClasses)
	assert.Equal(t, 1, rec.CandidateCount)
	assert.Equal(t, hash, rec.InputHash)

	unmatched := &types.Identification{Input: "C C# D", Outcome: types.OutcomeUnmatched}
	rec = FromTypesIdentification(unmatched, hash)
	assert.Empty(t, rec.Symbol)
	assert.Empty(t, rec.Quality)
}
