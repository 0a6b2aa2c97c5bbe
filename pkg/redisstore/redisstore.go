// Package redisstore keeps intermediate map output in Redis so the shuffle can
// live outside the indexing process.
package redisstore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dtnitsch/line-index/pkg/mapreduce"
	"github.com/redis/go-redis/v9"
)

var _ mapreduce.Store = (*Store)(nil)

const keyPrefix = "lineindex:"

const deleteBatch = 256

// DefaultTTL bounds how long an abandoned run's keys survive.
const DefaultTTL = time.Hour

// Store implements mapreduce.Store with one Redis list per key and one set of
// keys per partition, all under a run-scoped prefix.
type Store struct {
	client *redis.Client
	runID  string
	ttl    time.Duration
}

// Connect creates a client for addr and checks that the server answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return client, nil
}

// New creates a store for runID. A non-positive ttl uses DefaultTTL.
func New(client *redis.Client, runID string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, runID: runID, ttl: ttl}
}

func (s *Store) prefix() string {
	return keyPrefix + s.runID + ":"
}

func (s *Store) partsKey() string {
	return s.prefix() + "parts"
}

func (s *Store) keysKey(partition int) string {
	return s.prefix() + "p" + strconv.Itoa(partition) + ":keys"
}

func (s *Store) valuesKey(partition int, key string) string {
	return s.prefix() + "p" + strconv.Itoa(partition) + ":v:" + key
}

// Append pushes kvs inside one MULTI/EXEC so a batch is never interleaved
// with another task's batch.
func (s *Store) Append(ctx context.Context, partition int, kvs []mapreduce.KeyValue) error {
	if len(kvs) == 0 {
		return nil
	}

	keysKey := s.keysKey(partition)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		touched := make(map[string]struct{})
		for _, kv := range kvs {
			vk := s.valuesKey(partition, kv.Key)
			pipe.RPush(ctx, vk, kv.Value)
			pipe.SAdd(ctx, keysKey, kv.Key)
			touched[vk] = struct{}{}
		}
		for vk := range touched {
			pipe.Expire(ctx, vk, s.ttl)
		}
		pipe.SAdd(ctx, s.partsKey(), partition)
		pipe.Expire(ctx, keysKey, s.ttl)
		pipe.Expire(ctx, s.partsKey(), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append to partition %d: %w", partition, err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context, partition int) ([]string, error) {
	keys, err := s.client.SMembers(ctx, s.keysKey(partition)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys of partition %d: %w", partition, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Values(ctx context.Context, partition int, key string) ([]string, error) {
	values, err := s.client.LRange(ctx, s.valuesKey(partition, key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read values of %q: %w", key, err)
	}
	return values, nil
}

// Close deletes every key of the run, found through the partition and key
// sets that Append maintains. The client stays open.
func (s *Store) Close() error {
	ctx := context.Background()

	parts, err := s.client.SMembers(ctx, s.partsKey()).Result()
	if err != nil {
		return fmt.Errorf("failed to list partitions of run %s: %w", s.runID, err)
	}

	doomed := []string{s.partsKey()}
	for _, part := range parts {
		partition, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("bad partition %q in run %s: %w", part, s.runID, err)
		}
		keys, err := s.client.SMembers(ctx, s.keysKey(partition)).Result()
		if err != nil {
			return fmt.Errorf("failed to list keys of partition %d: %w", partition, err)
		}
		doomed = append(doomed, s.keysKey(partition))
		for _, key := range keys {
			doomed = append(doomed, s.valuesKey(partition, key))
		}
	}

	for start := 0; start < len(doomed); start += deleteBatch {
		end := min(start+deleteBatch, len(doomed))
		if err := s.client.Del(ctx, doomed[start:end]...).Err(); err != nil {
			return fmt.Errorf("failed to delete run %s: %w", s.runID, err)
		}
	}
	return nil
}
