package mapreduce

import (
	"context"
	"sort"
	"sync"
)

// Store holds intermediate records between the map and reduce phases.
// Append is called concurrently by map tasks; Keys and Values run after
// every Append has returned.
type Store interface {
	// Append adds records to a partition, preserving their order.
	Append(ctx context.Context, partition int, kvs []KeyValue) error
	// Keys lists the distinct keys of a partition in ascending order.
	Keys(ctx context.Context, partition int) ([]string, error)
	// Values returns a key's values in arrival order.
	Values(ctx context.Context, partition int, key string) ([]string, error)
	Close() error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu         sync.Mutex
	partitions map[int]map[string][]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{partitions: make(map[int]map[string][]string)}
}

func (s *MemoryStore) Append(_ context.Context, partition int, kvs []KeyValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, ok := s.partitions[partition]
	if !ok {
		groups = make(map[string][]string)
		s.partitions[partition] = groups
	}
	for _, kv := range kvs {
		groups[kv.Key] = append(groups[kv.Key], kv.Value)
	}
	return nil
}

func (s *MemoryStore) Keys(_ context.Context, partition int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.partitions[partition]))
	for k := range s.partitions[partition] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) Values(_ context.Context, partition int, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.partitions[partition][key]
	out := make([]string, len(values))
	copy(out, values)
	return out, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.partitions = make(map[int]map[string][]string)
	s.mu.Unlock()
	return nil
}
