// Package storetest checks that a mapreduce.Store honors the contract the
// engine relies on.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dtnitsch/line-index/pkg/mapreduce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh store from newStore for each subtest.
func Run(t *testing.T, newStore func(t *testing.T) mapreduce.Store) {
	t.Run("empty partition", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		keys, err := s.Keys(ctx, 3)
		require.NoError(t, err)
		assert.Empty(t, keys)

		values, err := s.Values(ctx, 3, "missing")
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("keys sorted and partitions isolated", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Append(ctx, 0, []mapreduce.KeyValue{
			{Key: "MAT", Value: "1"},
			{Key: "CAT", Value: "2"},
			{Key: "MAT", Value: "3"},
		}))
		require.NoError(t, s.Append(ctx, 1, []mapreduce.KeyValue{{Key: "DOG", Value: "4"}}))

		keys, err := s.Keys(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"CAT", "MAT"}, keys)

		keys, err = s.Keys(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"DOG"}, keys)

		values, err := s.Values(ctx, 0, "DOG")
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("values keep arrival order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Append(ctx, 0, []mapreduce.KeyValue{{Key: "CAT", Value: "0:1"}, {Key: "CAT", Value: "0:1"}}))
		require.NoError(t, s.Append(ctx, 0, []mapreduce.KeyValue{{Key: "CAT", Value: "1:3"}}))
		require.NoError(t, s.Append(ctx, 0, []mapreduce.KeyValue{{Key: "CAT", Value: ""}}))

		values, err := s.Values(ctx, 0, "CAT")
		require.NoError(t, err)
		assert.Equal(t, []string{"0:1", "0:1", "1:3", ""}, values)
	})

	t.Run("concurrent appends", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const writers, perWriter = 8, 25
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					kv := mapreduce.KeyValue{Key: fmt.Sprintf("K%d", i%5), Value: fmt.Sprintf("%d:%d", w, i+1)}
					assert.NoError(t, s.Append(ctx, 2, []mapreduce.KeyValue{kv}))
				}
			}()
		}
		wg.Wait()

		keys, err := s.Keys(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, []string{"K0", "K1", "K2", "K3", "K4"}, keys)

		total := 0
		for _, k := range keys {
			values, err := s.Values(ctx, 2, k)
			require.NoError(t, err)
			total += len(values)
		}
		assert.Equal(t, writers*perWriter, total)
	})
}
