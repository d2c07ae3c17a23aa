package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

func record(day, hour int) ports.TickRecord {
	return ports.TickRecord{
		Day:  day,
		Hour: hour,
		Seed: 42,
		Decisions: economy.Decisions{Agents: map[string]economy.AgentDecision{
			"1": {ThoughtProcess: "snack", Action: economy.ActionBuy, Target: "Insta-Oats"},
		}},
		Entries: []economy.LogEntry{{Seq: int64(hour), Day: day, Time: hour, ActorName: "System", Message: "tick", Kind: economy.LogSystem}},
	}
}

func TestWriter_RotatesHourlyAndReadsBack(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	clock := time.Date(2026, 3, 1, 10, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }

	ctx := context.Background()
	require.NoError(t, w.AppendTick(ctx, record(1, 9)))
	require.NoError(t, w.AppendTick(ctx, record(1, 10)))
	clock = clock.Add(2 * time.Minute)
	require.NoError(t, w.AppendTick(ctx, record(1, 11)))
	require.NoError(t, w.Close())

	files, err := Files(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "ticks-2026-03-01-10.jsonl.zst", filepath.Base(files[0]))
	assert.Equal(t, "ticks-2026-03-01-11.jsonl.zst", filepath.Base(files[1]))

	recs, err := ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []int{9, 10, 11}, []int{recs[0].Hour, recs[1].Hour, recs[2].Hour})
	assert.Equal(t, economy.ActionBuy, recs[0].Decisions.Agents["1"].Action)
	assert.Equal(t, int64(42), recs[2].Seed)
}

func TestReadFile_SeesRecordsOfOpenWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	t.Cleanup(func() { _ = w.Close() })
	require.NoError(t, w.AppendTick(context.Background(), record(2, 0)))

	recs, err := ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 2, recs[0].Day)
}

func TestWriter_AppendsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		w := NewWriter(dir)
		w.now = func() time.Time { return fixed }
		require.NoError(t, w.AppendTick(context.Background(), record(1, 12+i)))
		require.NoError(t, w.Close())
	}
	recs, err := ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestWriter_CloseReportsFileErrors(t *testing.T) {
	w := NewWriter(t.TempDir())
	require.NoError(t, w.AppendTick(context.Background(), record(1, 8)))
	require.NoError(t, w.f.Close())

	err := w.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.NoError(t, w.Close(), "a closed writer closes cleanly again")
}
