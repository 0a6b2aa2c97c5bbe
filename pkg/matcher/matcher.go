// Package matcher implements the map step: it scans one chunk, folds it to
// upper case and reports every occurrence of a query word with its chunk-local
// line number.
package matcher

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptyQuery is returned when no query words were supplied.
	ErrEmptyQuery = errors.New("query word list is empty")
	// ErrMalformedWord is returned for a query word that can never match a token.
	ErrMalformedWord = errors.New("malformed query word")
)

// Occurrence is a single match of a query word inside one chunk.
// Line counts newlines from the start of the chunk and is 1-based.
type Occurrence struct {
	Word    string
	ChunkID int
	Line    int
}

// QuerySet is an immutable set of upper-cased query words.
type QuerySet struct {
	words map[string]struct{}
}

// NewQuerySet normalizes and validates words. Duplicates collapse.
func NewQuerySet(words []string) (*QuerySet, error) {
	if len(words) == 0 {
		return nil, ErrEmptyQuery
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			return nil, fmt.Errorf("%w: empty word", ErrMalformedWord)
		}
		upper := make([]byte, len(w))
		for i := 0; i < len(w); i++ {
			b := toUpper(w[i])
			if !isWordByte(b) {
				return nil, fmt.Errorf("%w: %q contains %q", ErrMalformedWord, w, w[i])
			}
			upper[i] = b
		}
		set[string(upper)] = struct{}{}
	}

	return &QuerySet{words: set}, nil
}

// Len returns the number of distinct query words.
func (q *QuerySet) Len() int {
	return len(q.words)
}

// Words returns the query words in ascending order.
func (q *QuerySet) Words() []string {
	out := make([]string, 0, len(q.words))
	for w := range q.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether token is exactly one of the query words.
// token must already be upper-cased.
func (q *QuerySet) Contains(token []byte) bool {
	_, ok := q.words[string(token)]
	return ok
}

func toUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func isWordByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || b == '\''
}

// Scan upper-cases chunk in place, then walks it left to right and calls emit
// for every token found in qs. It returns the number of lines in the chunk,
// which is always at least 1. An error from emit stops the scan.
func Scan(chunk []byte, chunkID int, qs *QuerySet, emit func(Occurrence) error) (int, error) {
	for i := range chunk {
		chunk[i] = toUpper(chunk[i])
	}

	line := 1
	n := len(chunk)
	i := 0
	for i < n {
		for i < n && !isWordByte(chunk[i]) {
			if chunk[i] == '\n' {
				line++
			}
			i++
		}

		start := i
		for i < n && isWordByte(chunk[i]) {
			i++
		}
		if i == start {
			continue
		}

		token := chunk[start:i]
		if !qs.Contains(token) {
			continue
		}
		if err := emit(Occurrence{Word: string(token), ChunkID: chunkID, Line: line}); err != nil {
			return line, fmt.Errorf("failed to emit %s at chunk %d line %d: %w", token, chunkID, line, err)
		}
	}

	return line, nil
}
