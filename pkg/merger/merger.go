// Package merger folds the occurrences of one word into a single list.
package merger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadEncoding is returned when an encoded occurrence list cannot be parsed.
var ErrBadEncoding = errors.New("bad occurrence encoding")

// Pair locates one occurrence: the chunk it was found in and its chunk-local line.
type Pair struct {
	ChunkID int
	Line    int
}

func (p Pair) String() string {
	return strconv.Itoa(p.ChunkID) + ":" + strconv.Itoa(p.Line)
}

// Merge appends incoming to list in order, dropping any pair equal to the
// pair appended right before it. The last element of list is the only merge
// state, so Merge can be applied repeatedly to partial batches.
func Merge(list []Pair, incoming ...Pair) []Pair {
	for _, p := range incoming {
		if n := len(list); n > 0 && list[n-1] == p {
			continue
		}
		list = append(list, p)
	}
	return list
}

// Encode renders pairs as "chunk:line,chunk:line".
func Encode(pairs []Pair) string {
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(p.ChunkID))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(p.Line))
	}
	return sb.String()
}

// Decode parses the output of Encode. The empty string is an empty list.
func Decode(s string) ([]Pair, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	pairs := make([]Pair, 0, len(parts))
	for _, part := range parts {
		chunkStr, lineStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadEncoding, part)
		}
		chunkID, err := strconv.Atoi(chunkStr)
		if err != nil || chunkID < 0 {
			return nil, fmt.Errorf("%w: chunk id in %q", ErrBadEncoding, part)
		}
		line, err := strconv.Atoi(lineStr)
		if err != nil || line < 1 {
			return nil, fmt.Errorf("%w: line in %q", ErrBadEncoding, part)
		}
		pairs = append(pairs, Pair{ChunkID: chunkID, Line: line})
	}
	return pairs, nil
}

// Reduce folds a batch of encoded values, in arrival order, into one encoded
// list. Values may be single occurrences or earlier Reduce outputs.
func Reduce(values []string) (string, error) {
	var list []Pair
	for _, v := range values {
		pairs, err := Decode(v)
		if err != nil {
			return "", err
		}
		list = Merge(list, pairs...)
	}
	return Encode(list), nil
}
