// Package chunker divides a document into contiguous, word-aligned byte ranges.
package chunker

import (
	"errors"
	"fmt"
)

// DefaultChunkSize is the nominal chunk size used when none is configured.
const DefaultChunkSize = 1024 * 1024

// ErrInvalidChunkSize is returned for a chunk size below one byte.
var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// Chunk is one contiguous byte range of the document.
// IDs are assigned in document order starting at 0.
type Chunk struct {
	ID    int
	Start int
	End   int
}

// Len returns the number of bytes in the chunk.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// Bytes returns the chunk's slice of doc. The slice aliases doc.
func (c Chunk) Bytes(doc []byte) []byte {
	return doc[c.Start:c.End:c.End]
}

// Chunker hands out chunks sequentially. It is not safe for concurrent use.
type Chunker struct {
	doc       []byte
	chunkSize int
	cursor    int
	nextID    int
}

// New creates a Chunker over doc.
func New(doc []byte, chunkSize int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, chunkSize)
	}
	return &Chunker{doc: doc, chunkSize: chunkSize}, nil
}

// IsBreak reports whether b ends a chunk boundary search.
func IsBreak(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// Next returns the next chunk, or false once the whole document was handed out.
func (c *Chunker) Next() (Chunk, bool) {
	size := len(c.doc)
	if c.cursor >= size {
		return Chunk{}, false
	}

	end := c.cursor + c.chunkSize
	if end > size || end < c.cursor {
		end = size
	}
	// Move the end point forward to the next word break
	for end < size && !IsBreak(c.doc[end]) {
		end++
	}

	chunk := Chunk{ID: c.nextID, Start: c.cursor, End: end}
	c.cursor = end
	c.nextID++
	return chunk, true
}

// Split drains a Chunker over doc into a slice.
func Split(doc []byte, chunkSize int) ([]Chunk, error) {
	c, err := New(doc, chunkSize)
	if err != nil {
		return nil, err
	}

	var chunks []Chunk
	for {
		chunk, ok := c.Next()
		if !ok {
			return chunks, nil
		}
		chunks = append(chunks, chunk)
	}
}
