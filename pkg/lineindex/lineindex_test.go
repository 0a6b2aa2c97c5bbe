package lineindex

import (
	"context"
	"strings"
	"testing"

	"github.com/dtnitsch/line-index/pkg/chunker"
	"github.com/dtnitsch/line-index/pkg/mapreduce"
	"github.com/dtnitsch/line-index/pkg/matcher"
	"github.com/dtnitsch/line-index/pkg/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = "cat sat\non the\nMAT with\na cat"

func newEngine(opts mapreduce.Options) *mapreduce.Engine {
	return mapreduce.NewEngine(mapreduce.NewMemoryStore(), opts, nil)
}

func TestBuild_Scenario(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		chunks    int
	}{
		{"single chunk", chunker.DefaultChunkSize, 1},
		{"split after the", 14, 2},
		{"tiny chunks", 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := Build(context.Background(), newEngine(mapreduce.DefaultOptions()), []byte(scenario), []string{"cat", "mat", "dog"}, tt.chunkSize)
			require.NoError(t, err)

			assert.Equal(t, tt.chunks, idx.Chunks)
			assert.Equal(t, 4, idx.Lines)
			assert.Equal(t, []reconcile.Entry{
				{Word: "CAT", Lines: []uint32{1, 4}},
				{Word: "MAT", Lines: []uint32{3}},
			}, idx.Entries)
			assert.Equal(t, 3, idx.LineHits)
		})
	}
}

func TestBuild_RepeatsOnOneLineCountOnce(t *testing.T) {
	idx, err := Build(context.Background(), newEngine(mapreduce.DefaultOptions()), []byte("cat cat\ncat"), []string{"cat"}, 4)
	require.NoError(t, err)

	lines, ok := idx.Lookup("CAT")
	require.True(t, ok)
	assert.Equal(t, []uint32{1, 2}, lines)
	assert.Equal(t, 2, idx.LineHits)
}

func TestBuild_ChunkSizesAgree(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		switch i % 7 {
		case 0:
			sb.WriteString("the quick brown fox\n")
		case 3:
			sb.WriteString("\n\n")
		case 5:
			sb.WriteString("fox's den\tand the fox  jumps \r\n")
		default:
			sb.WriteString("lazy dog sleeps\n")
		}
	}
	text := sb.String()
	words := []string{"fox", "dog", "the", "fox's"}

	want, err := Build(context.Background(), newEngine(mapreduce.Options{Workers: 1, Partitions: 1}), []byte(text), words, len(text))
	require.NoError(t, err)
	require.Equal(t, 1, want.Chunks)

	for _, size := range []int{1, 7, 64, 333, 4096} {
		for _, opts := range []mapreduce.Options{
			{Workers: 8, Partitions: 3, Combine: true},
			{Workers: 2, Partitions: 5, ReduceBatch: 2},
		} {
			got, err := Build(context.Background(), newEngine(opts), []byte(text), words, size)
			require.NoError(t, err)
			assert.Equal(t, want.Entries, got.Entries, "chunk size %d opts %+v", size, opts)
			assert.Equal(t, want.Lines, got.Lines)
		}
	}
}

func TestBuild_InputErrors(t *testing.T) {
	engine := newEngine(mapreduce.DefaultOptions())

	_, err := Build(context.Background(), engine, []byte(scenario), nil, 10)
	assert.ErrorIs(t, err, matcher.ErrEmptyQuery)

	_, err = Build(context.Background(), engine, []byte(scenario), []string{"c4t"}, 10)
	assert.ErrorIs(t, err, matcher.ErrMalformedWord)

	_, err = Build(context.Background(), engine, []byte(scenario), []string{"cat"}, 0)
	assert.ErrorIs(t, err, chunker.ErrInvalidChunkSize)
}

func TestBuild_EmptyDocument(t *testing.T) {
	idx, err := Build(context.Background(), newEngine(mapreduce.DefaultOptions()), nil, []string{"cat"}, 10)
	require.NoError(t, err)
	assert.Zero(t, idx.Chunks)
	assert.Zero(t, idx.Lines)
	assert.Empty(t, idx.Entries)
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, newEngine(mapreduce.DefaultOptions()), []byte(scenario), []string{"cat"}, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndex_LookupTruncateTop(t *testing.T) {
	idx := &Index{Entries: []reconcile.Entry{
		{Word: "CAT", Lines: []uint32{1, 2, 3, 4}},
		{Word: "DOG", Lines: []uint32{7}},
		{Word: "EEL", Lines: []uint32{5, 9}},
	}, LineHits: 7}

	lines, ok := idx.Lookup("cat")
	require.True(t, ok)
	assert.Equal(t, []uint32{1, 2, 3, 4}, lines)
	_, ok = idx.Lookup("cow")
	assert.False(t, ok)

	short := idx.Truncate(2)
	assert.Equal(t, []uint32{1, 2}, short.Entries[0].Lines)
	assert.Equal(t, []uint32{7}, short.Entries[1].Lines)
	assert.Equal(t, 7, short.LineHits)
	assert.Len(t, idx.Entries[0].Lines, 4, "Truncate must not modify the original")
	assert.Equal(t, idx.Entries, idx.Truncate(0).Entries)

	assert.Equal(t, []string{"CAT:4", "EEL:2"}, idx.TopWords(2))
}

func TestJob_MapReportsLines(t *testing.T) {
	doc := []byte("\ncat\ncat")
	qs, err := matcher.NewQuerySet([]string{"cat"})
	require.NoError(t, err)
	job, err := NewJob(doc, qs, 100)
	require.NoError(t, err)

	chunk, ok, err := job.Split()
	require.NoError(t, err)
	require.True(t, ok)

	var got []mapreduce.KeyValue
	stat, err := job.Map(chunk, emitFunc(func(k, v string) error {
		got = append(got, mapreduce.KeyValue{Key: k, Value: v})
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, reconcile.ChunkStat{ChunkID: 0, TotalLines: 3}, stat)
	assert.Equal(t, []mapreduce.KeyValue{{Key: "CAT", Value: "0:2"}, {Key: "CAT", Value: "0:3"}}, got)

	_, ok, err = job.Split()
	require.NoError(t, err)
	assert.False(t, ok)
}

type emitFunc func(key, value string) error

func (f emitFunc) Emit(key, value string) error { return f(key, value) }
