// Package mapreduce runs split/map/reduce jobs on a bounded worker pool.
//
// A Job supplies the three steps; the Engine owns everything else: building
// the work list, running map tasks concurrently, partitioning emitted keys
// through a Store, and reducing each key's values. Jobs never see each other's
// state and the engine never looks inside keys or values.
package mapreduce

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// KeyValue is one intermediate or final record.
type KeyValue struct {
	Key   string
	Value string
}

// Emitter receives the records produced by a map task.
type Emitter interface {
	Emit(key, value string) error
}

// Job is the plug-in contract between a computation and the engine.
//
// Split is called repeatedly from a single goroutine until it reports false.
// Map is called once per split, concurrently with other splits, and returns a
// per-split result that the engine hands back in Output.Splits. Reduce folds a
// key's values into one value; it may be called again on its own output when
// the engine combines or batches, so it must tolerate that.
type Job[S, M any] interface {
	Split() (S, bool, error)
	Map(split S, emit Emitter) (M, error)
	Reduce(key string, values []string) (string, error)
}

// Options tune the engine.
type Options struct {
	// Workers bounds concurrent map and reduce tasks.
	Workers int
	// Partitions is the number of reduce groups keys are hashed into.
	Partitions int
	// Combine pre-reduces each map task's output per key before the shuffle.
	Combine bool
	// ReduceBatch, when positive, feeds a key's values to Reduce in batches of
	// this size, carrying the partial result into the next batch.
	ReduceBatch int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Workers: 4, Partitions: 4, Combine: true}
}

// Output is what a finished run hands back.
type Output[M any] struct {
	// Splits holds map results in completion order.
	Splits []M
	// Results holds one record per key, ordered by key.
	Results []KeyValue
}

// Engine executes jobs against an intermediate Store.
type Engine struct {
	store  Store
	opts   Options
	logger *slog.Logger
}

// NewEngine creates an engine. Zero option values fall back to defaults.
func NewEngine(store Store, opts Options, logger *slog.Logger) *Engine {
	def := DefaultOptions()
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.Partitions <= 0 {
		opts.Partitions = def.Partitions
	}
	if opts.ReduceBatch < 0 {
		opts.ReduceBatch = 0
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{store: store, opts: opts, logger: logger}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Run executes job to completion. Any failing task cancels the others and
// fails the run; no partial output is returned.
func Run[S, M any](ctx context.Context, e *Engine, job Job[S, M]) (*Output[M], error) {
	startTime := time.Now()

	var splits []S
	for {
		s, ok, err := job.Split()
		if err != nil {
			return nil, fmt.Errorf("failed to split input: %w", err)
		}
		if !ok {
			break
		}
		splits = append(splits, s)
	}

	e.logger.Info("Starting map phase", "splits", len(splits), "workers", e.opts.Workers, "partitions", e.opts.Partitions, "combine", e.opts.Combine)
	mapped, err := runMaps(ctx, e, job, splits)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Map phase complete", "splits", len(mapped), "elapsed", time.Since(startTime).String())

	results, err := runReduces(ctx, e, job)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Reduce phase complete", "keys", len(results), "elapsed", time.Since(startTime).String())

	return &Output[M]{Splits: mapped, Results: results}, nil
}

// bufferEmitter collects one map task's output.
type bufferEmitter struct {
	kvs []KeyValue
}

func (b *bufferEmitter) Emit(key, value string) error {
	b.kvs = append(b.kvs, KeyValue{Key: key, Value: value})
	return nil
}

func runMaps[S, M any](ctx context.Context, e *Engine, job Job[S, M], splits []S) ([]M, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	var mu sync.Mutex
	mapped := make([]M, 0, len(splits))

	for i, split := range splits {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			buf := &bufferEmitter{}
			m, err := job.Map(split, buf)
			if err != nil {
				return fmt.Errorf("map task %d failed: %w", i, err)
			}

			kvs := buf.kvs
			if e.opts.Combine {
				if kvs, err = combine(job, kvs); err != nil {
					return fmt.Errorf("combine for map task %d failed: %w", i, err)
				}
			}

			for p, part := range partitionAll(kvs, e.opts.Partitions) {
				if len(part) == 0 {
					continue
				}
				if err := e.store.Append(gctx, p, part); err != nil {
					return fmt.Errorf("failed to store output of map task %d: %w", i, err)
				}
			}

			mu.Lock()
			mapped = append(mapped, m)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mapped, nil
}

// combine reduces a task's records per key, keeping each key's values in
// emission order.
func combine[S, M any](job Job[S, M], kvs []KeyValue) ([]KeyValue, error) {
	var order []string
	groups := make(map[string][]string)
	for _, kv := range kvs {
		if _, ok := groups[kv.Key]; !ok {
			order = append(order, kv.Key)
		}
		groups[kv.Key] = append(groups[kv.Key], kv.Value)
	}

	out := make([]KeyValue, 0, len(order))
	for _, key := range order {
		v, err := job.Reduce(key, groups[key])
		if err != nil {
			return nil, err
		}
		out = append(out, KeyValue{Key: key, Value: v})
	}
	return out, nil
}

func runReduces[S, M any](ctx context.Context, e *Engine, job Job[S, M]) ([]KeyValue, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	var mu sync.Mutex
	var results []KeyValue

	for p := 0; p < e.opts.Partitions; p++ {
		g.Go(func() error {
			keys, err := e.store.Keys(gctx, p)
			if err != nil {
				return fmt.Errorf("failed to list keys of partition %d: %w", p, err)
			}

			// One key at a time keeps each key's values in arrival order.
			local := make([]KeyValue, 0, len(keys))
			for _, key := range keys {
				values, err := e.store.Values(gctx, p, key)
				if err != nil {
					return fmt.Errorf("failed to read values of %q: %w", key, err)
				}
				v, err := reduceKey(job, key, values, e.opts.ReduceBatch)
				if err != nil {
					return fmt.Errorf("reduce of %q failed: %w", key, err)
				}
				local = append(local, KeyValue{Key: key, Value: v})
			}

			mu.Lock()
			results = append(results, local...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return results, nil
}

func reduceKey[S, M any](job Job[S, M], key string, values []string, batch int) (string, error) {
	if batch <= 0 || len(values) <= batch {
		return job.Reduce(key, values)
	}

	var carry []string
	for start := 0; start < len(values); start += batch {
		end := min(start+batch, len(values))
		in := make([]string, 0, len(carry)+end-start)
		in = append(in, carry...)
		in = append(in, values[start:end]...)

		v, err := job.Reduce(key, in)
		if err != nil {
			return "", err
		}
		carry = []string{v}
	}
	return carry[0], nil
}
