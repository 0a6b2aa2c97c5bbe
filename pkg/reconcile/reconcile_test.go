package reconcile

import (
	"math"
	"testing"

	"github.com/dtnitsch/line-index/pkg/merger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOffsetTable_PrefixSums(t *testing.T) {
	// Completion order differs from chunk order.
	stats := []ChunkStat{
		{ChunkID: 2, TotalLines: 5},
		{ChunkID: 0, TotalLines: 3},
		{ChunkID: 1, TotalLines: 1},
	}

	table, err := NewOffsetTable(stats)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, uint64(7), table.Lines())

	for id, want := range []uint64{0, 2, 2} {
		got, err := table.Offset(id)
		require.NoError(t, err)
		assert.Equal(t, want, got, "chunk %d", id)
	}
}

func TestNewOffsetTable_SingleChunkIsNoOp(t *testing.T) {
	table, err := NewOffsetTable([]ChunkStat{{ChunkID: 0, TotalLines: 4}})
	require.NoError(t, err)

	for line := 1; line <= 4; line++ {
		g, err := table.Global(merger.Pair{ChunkID: 0, Line: line})
		require.NoError(t, err)
		assert.Equal(t, uint64(line), g)
	}
}

func TestNewOffsetTable_Consistency(t *testing.T) {
	tests := []struct {
		name    string
		stats   []ChunkStat
		wantErr error
	}{
		{name: "missing first", stats: []ChunkStat{{1, 2}, {2, 2}}, wantErr: ErrMissingChunk},
		{name: "gap", stats: []ChunkStat{{0, 2}, {2, 2}}, wantErr: ErrMissingChunk},
		{name: "duplicate", stats: []ChunkStat{{0, 2}, {1, 2}, {1, 3}}, wantErr: ErrDuplicateChunk},
		{name: "zero lines", stats: []ChunkStat{{0, 0}}, wantErr: ErrBadLineCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOffsetTable(tt.stats)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReconcile_TwoChunkScenario(t *testing.T) {
	// "cat sat\non the" | "\nMAT with\na cat"
	stats := []ChunkStat{{ChunkID: 1, TotalLines: 3}, {ChunkID: 0, TotalLines: 2}}
	lists := map[string][]merger.Pair{
		"CAT": {{ChunkID: 1, Line: 3}, {ChunkID: 0, Line: 1}},
		"MAT": {{ChunkID: 1, Line: 2}},
		"DOG": nil,
	}

	entries, err := Reconcile(stats, lists)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Word: "CAT", Lines: []uint32{1, 4}},
		{Word: "MAT", Lines: []uint32{3}},
	}, entries)
}

func TestReconcile_DeduplicatesAfterConversion(t *testing.T) {
	stats := []ChunkStat{{ChunkID: 0, TotalLines: 2}, {ChunkID: 1, TotalLines: 2}}
	lists := map[string][]merger.Pair{
		// chunk 0 line 2 and chunk 1 line 1 are the same document line.
		"THE": {
			{ChunkID: 0, Line: 2},
			{ChunkID: 1, Line: 1},
			{ChunkID: 0, Line: 2},
			{ChunkID: 0, Line: 1},
		},
	}

	entries, err := Reconcile(stats, lists)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Word: "THE", Lines: []uint32{1, 2}}}, entries)
}

func TestReconcile_Monotonic(t *testing.T) {
	stats := []ChunkStat{{0, 3}, {1, 1}, {2, 4}, {3, 2}}
	var pairs []merger.Pair
	for _, s := range stats {
		for line := 1; line <= s.TotalLines; line++ {
			pairs = append(pairs, merger.Pair{ChunkID: s.ChunkID, Line: line})
		}
	}

	table, err := NewOffsetTable(stats)
	require.NoError(t, err)

	var prev uint64
	for i, p := range pairs {
		g, err := table.Global(p)
		require.NoError(t, err)
		if i > 0 {
			assert.GreaterOrEqual(t, g, prev, "pair %v", p)
		}
		prev = g
	}
	assert.Equal(t, table.Lines(), prev)
}

func TestReconcile_UnknownChunk(t *testing.T) {
	_, err := Reconcile([]ChunkStat{{0, 1}}, map[string][]merger.Pair{"CAT": {{ChunkID: 5, Line: 1}}})
	assert.ErrorIs(t, err, ErrUnknownChunk)
}

func TestReconcile_Overflow(t *testing.T) {
	stats := []ChunkStat{{0, math.MaxUint32}, {1, 3}}
	_, err := Reconcile(stats, map[string][]merger.Pair{"CAT": {{ChunkID: 1, Line: 3}}})
	assert.ErrorIs(t, err, ErrLineOverflow)
}
