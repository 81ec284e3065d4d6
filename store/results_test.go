package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actioncam/recognize"
)

func openTestStore(t *testing.T) *ResultStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadFinalResult(t *testing.T) {
	s := openTestStore(t)

	completed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	final := recognize.FinalResult{
		SessionID: "session-1",
		Clips:     150,
		Timestamp: completed,
		Labels: []recognize.RankedLabel{
			{Rank: 1, Label: "running", Score: 120.5},
			{Rank: 2, Label: "walking", Score: 80.25},
			{Rank: 3, Label: "sitting", Score: 12.0},
		},
	}
	require.NoError(t, s.SaveFinal(final))

	got, err := s.Session("session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.SessionID)
	assert.Equal(t, 150, got.Clips)
	assert.True(t, completed.Equal(got.CompletedAt))
	require.Len(t, got.Labels, 3)
	assert.Equal(t, "running", got.Labels[0].Label)
	assert.Equal(t, 1, got.Labels[0].Rank)
	assert.InDelta(t, 120.5, got.Labels[0].Score, 1e-9)
}

func TestSessionsAreIndependent(t *testing.T) {
	s := openTestStore(t)

	for _, id := range []string{"a", "b"} {
		require.NoError(t, s.SaveFinal(recognize.FinalResult{
			SessionID: id,
			Clips:     3,
			Timestamp: time.Now(),
			Labels:    []recognize.RankedLabel{{Rank: 1, Label: "label-" + id, Score: 1}},
		}))
	}

	got, err := s.Session("b")
	require.NoError(t, err)
	require.Len(t, got.Labels, 1)
	assert.Equal(t, "label-b", got.Labels[0].Label)
}

func TestSessionNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Session("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
