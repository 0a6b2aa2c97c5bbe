package lineindex

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtnitsch/line-index/pkg/mapreduce"
	"github.com/dtnitsch/line-index/pkg/matcher"
	"github.com/dtnitsch/line-index/pkg/merger"
	"github.com/dtnitsch/line-index/pkg/reconcile"
)

// Index is the finished result of a run.
type Index struct {
	Entries []reconcile.Entry `json:"entries" yaml:"entries"`
	Chunks  int               `json:"chunks" yaml:"chunks"`
	Lines   int               `json:"lines" yaml:"lines"`

	// LineHits counts (word, line) results after duplicates on one line
	// were merged, so it can be lower than the number of matched tokens.
	LineHits int `json:"line_hits" yaml:"line_hits"`
}

// Build indexes words in doc. Query words and chunk size are validated before
// any work is scheduled. doc is upper-cased in place.
func Build(ctx context.Context, engine *mapreduce.Engine, doc []byte, words []string, chunkSize int) (*Index, error) {
	query, err := matcher.NewQuerySet(words)
	if err != nil {
		return nil, err
	}
	job, err := NewJob(doc, query, chunkSize)
	if err != nil {
		return nil, err
	}

	out, err := mapreduce.Run(ctx, engine, job)
	if err != nil {
		return nil, err
	}

	lists := make(map[string][]merger.Pair, len(out.Results))
	for _, kv := range out.Results {
		pairs, err := merger.Decode(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to decode occurrences of %s: %w", kv.Key, err)
		}
		lists[kv.Key] = pairs
	}

	table, err := reconcile.NewOffsetTable(out.Splits)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile chunks: %w", err)
	}
	entries, err := table.Apply(lists)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile chunks: %w", err)
	}

	idx := &Index{Entries: entries, Chunks: table.Len()}
	if table.Len() > 0 {
		idx.Lines = int(table.Lines())
	}
	for _, e := range entries {
		idx.LineHits += len(e.Lines)
	}
	return idx, nil
}

// Lookup returns the lines for word, matched case-insensitively.
func (idx *Index) Lookup(word string) ([]uint32, bool) {
	word = strings.ToUpper(word)
	for _, e := range idx.Entries {
		if e.Word == word {
			return e.Lines, true
		}
	}
	return nil, false
}

// Truncate returns a copy whose line lists hold at most limit lines each.
// A non-positive limit keeps everything. Counts are not changed.
func (idx *Index) Truncate(limit int) *Index {
	out := *idx
	out.Entries = make([]reconcile.Entry, len(idx.Entries))
	for i, e := range idx.Entries {
		if limit > 0 && len(e.Lines) > limit {
			e.Lines = e.Lines[:limit:limit]
		}
		out.Entries[i] = e
	}
	return &out
}

// TopWords returns up to n "WORD:count" strings, most frequent first.
func (idx *Index) TopWords(n int) []string {
	counts := make(map[string]int, len(idx.Entries))
	for _, e := range idx.Entries {
		counts[e.Word] = len(e.Lines)
	}
	return mapreduce.TopKeys(counts, n)
}
