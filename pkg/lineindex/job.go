// Package lineindex builds a word to line-number index over a document by
// running chunker, matcher and merger through the mapreduce engine.
package lineindex

import (
	"github.com/dtnitsch/line-index/pkg/chunker"
	"github.com/dtnitsch/line-index/pkg/mapreduce"
	"github.com/dtnitsch/line-index/pkg/matcher"
	"github.com/dtnitsch/line-index/pkg/merger"
	"github.com/dtnitsch/line-index/pkg/reconcile"
)

var _ mapreduce.Job[chunker.Chunk, reconcile.ChunkStat] = (*Job)(nil)

// Job indexes one document. Map upper-cases each chunk in place, so the
// document buffer is modified by a run.
type Job struct {
	doc     []byte
	query   *matcher.QuerySet
	chunker *chunker.Chunker
}

// NewJob prepares a job over doc. It fails on a bad chunk size.
func NewJob(doc []byte, query *matcher.QuerySet, chunkSize int) (*Job, error) {
	c, err := chunker.New(doc, chunkSize)
	if err != nil {
		return nil, err
	}
	return &Job{doc: doc, query: query, chunker: c}, nil
}

func (j *Job) Split() (chunker.Chunk, bool, error) {
	chunk, ok := j.chunker.Next()
	return chunk, ok, nil
}

// Map emits one single-pair list per occurrence and reports the chunk's line
// count for offset reconciliation.
func (j *Job) Map(chunk chunker.Chunk, emit mapreduce.Emitter) (reconcile.ChunkStat, error) {
	lines, err := matcher.Scan(chunk.Bytes(j.doc), chunk.ID, j.query, func(o matcher.Occurrence) error {
		return emit.Emit(o.Word, merger.Encode([]merger.Pair{{ChunkID: o.ChunkID, Line: o.Line}}))
	})
	if err != nil {
		return reconcile.ChunkStat{}, err
	}
	return reconcile.ChunkStat{ChunkID: chunk.ID, TotalLines: lines}, nil
}

func (j *Job) Reduce(_ string, values []string) (string, error) {
	return merger.Reduce(values)
}
