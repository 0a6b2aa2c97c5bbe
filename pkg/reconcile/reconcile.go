// Package reconcile converts chunk-local line numbers into document-global
// ones once every chunk has been scanned.
//
// Each chunk boundary falls in the middle of a line, so the last line of chunk
// i and the first line of chunk i+1 are the same document line. The offset of
// a chunk is therefore the sum of (TotalLines - 1) over all earlier chunks.
package reconcile

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/dtnitsch/line-index/pkg/merger"
)

var (
	ErrMissingChunk   = errors.New("chunk missing from offset table")
	ErrDuplicateChunk = errors.New("chunk reported more than once")
	ErrUnknownChunk   = errors.New("occurrence references unknown chunk")
	ErrBadLineCount   = errors.New("chunk line count must be at least 1")
	ErrLineOverflow   = errors.New("global line number out of range")
)

// ChunkStat is the result of scanning one chunk.
type ChunkStat struct {
	ChunkID    int `json:"chunk_id" yaml:"chunk_id"`
	TotalLines int `json:"total_lines" yaml:"total_lines"`
}

// Entry is the final line list of one word.
type Entry struct {
	Word  string   `json:"word" yaml:"word"`
	Lines []uint32 `json:"lines" yaml:"lines"`
}

// OffsetTable maps a chunk ID to the number of document lines before it.
type OffsetTable struct {
	offsets []uint64
	lines   uint64
}

// NewOffsetTable orders stats by chunk ID and builds the prefix sum table.
// The IDs must be exactly 0..len(stats)-1; anything else means the engine
// lost or duplicated a chunk.
func NewOffsetTable(stats []ChunkStat) (*OffsetTable, error) {
	sorted := make([]ChunkStat, len(stats))
	copy(sorted, stats)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ChunkID < sorted[j].ChunkID
	})

	offsets := make([]uint64, len(sorted))
	var sum uint64
	for i, s := range sorted {
		switch {
		case s.ChunkID < i:
			return nil, fmt.Errorf("%w: chunk %d", ErrDuplicateChunk, s.ChunkID)
		case s.ChunkID > i:
			return nil, fmt.Errorf("%w: chunk %d", ErrMissingChunk, i)
		}
		if s.TotalLines < 1 {
			return nil, fmt.Errorf("%w: chunk %d has %d", ErrBadLineCount, s.ChunkID, s.TotalLines)
		}
		offsets[i] = sum
		sum += uint64(s.TotalLines - 1)
	}

	return &OffsetTable{offsets: offsets, lines: sum + 1}, nil
}

// Len returns the number of chunks in the table.
func (t *OffsetTable) Len() int {
	return len(t.offsets)
}

// Lines returns the number of lines in the whole document.
func (t *OffsetTable) Lines() uint64 {
	return t.lines
}

// Offset returns the line offset of a chunk.
func (t *OffsetTable) Offset(chunkID int) (uint64, error) {
	if chunkID < 0 || chunkID >= len(t.offsets) {
		return 0, fmt.Errorf("%w: chunk %d of %d", ErrUnknownChunk, chunkID, len(t.offsets))
	}
	return t.offsets[chunkID], nil
}

// Global converts a chunk-local pair into a 1-based document line number.
func (t *OffsetTable) Global(p merger.Pair) (uint64, error) {
	off, err := t.Offset(p.ChunkID)
	if err != nil {
		return 0, err
	}
	return off + uint64(p.Line), nil
}

// Reconcile resolves every word's occurrence list to sorted, unique global
// line numbers. Words without occurrences are left out. Entries are ordered by
// word.
func Reconcile(stats []ChunkStat, lists map[string][]merger.Pair) ([]Entry, error) {
	table, err := NewOffsetTable(stats)
	if err != nil {
		return nil, err
	}
	return table.Apply(lists)
}

// Apply resolves lists against the table. See Reconcile.
func (t *OffsetTable) Apply(lists map[string][]merger.Pair) ([]Entry, error) {
	words := make([]string, 0, len(lists))
	for w, pairs := range lists {
		if len(pairs) > 0 {
			words = append(words, w)
		}
	}
	sort.Strings(words)

	entries := make([]Entry, 0, len(words))
	for _, w := range words {
		bm := roaring.New()
		for _, p := range lists[w] {
			g, err := t.Global(p)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s: %w", w, err)
			}
			if g > math.MaxUint32 {
				return nil, fmt.Errorf("%w: %s at line %d", ErrLineOverflow, w, g)
			}
			bm.Add(uint32(g))
		}
		entries = append(entries, Entry{Word: w, Lines: bm.ToArray()})
	}
	return entries, nil
}
