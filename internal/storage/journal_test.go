package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dyike/QuantHedge/models"
	"github.com/dyike/QuantHedge/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j, err := OpenJournal(ctx, filepath.Join(t.TempDir(), "db", "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		rec := models.CycleRecord{
			ID:          id.NewAt(at),
			Prompt:      "analyze my portfolio",
			Status:      "success",
			Action:      "SELL",
			Ticker:      "SPY",
			Quantity:    int64(100 + i),
			TradeStatus: "FAILED",
			ReportJSON:  `{"status":"success"}`,
			CreatedAt:   at,
		}
		require.NoError(t, j.Record(ctx, rec))
	}

	recs, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(102), recs[0].Quantity)
	assert.Equal(t, int64(101), recs[1].Quantity)
	assert.True(t, recs[0].CreatedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, "FAILED", recs[0].TradeStatus)
}

func TestJournalErrorRecordHasNoTrade(t *testing.T) {
	ctx := context.Background()
	j, err := OpenJournal(ctx, filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Record(ctx, models.CycleRecord{ID: id.NewCycleID(), Status: "error", ReportJSON: "{}"}))
	recs, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Action)

	assert.Error(t, j.Record(ctx, models.CycleRecord{}))
}

func TestOpenWithoutPathIsNop(t *testing.T) {
	j, err := Open(context.Background(), "")
	require.NoError(t, err)
	assert.IsType(t, NopJournal{}, j)
	recs, err := j.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
