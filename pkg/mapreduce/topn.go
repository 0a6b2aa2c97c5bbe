package mapreduce

import (
	"fmt"
	"sort"
)

// TopKeys returns the n keys with the highest counts, formatted as
// "key:count" (e.g. "CAT:12"). Ties are broken alphabetically.
func TopKeys(counts map[string]int, n int) []string {
	type kv struct {
		Key   string
		Value int
	}

	ss := make([]kv, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, kv{k, v})
	}

	// Sort by count (descending)
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	keys := make([]string, limit)
	for i := 0; i < limit; i++ {
		keys[i] = fmt.Sprintf("%s:%d", ss[i].Key, ss[i].Value)
	}
	return keys
}
