package mapreduce

import "github.com/zeebo/xxh3"

// Partition maps a key to one of n reduce groups.
func Partition(key string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(xxh3.HashString(key) % uint64(n))
}

func partitionAll(kvs []KeyValue, n int) [][]KeyValue {
	parts := make([][]KeyValue, n)
	for _, kv := range kvs {
		p := Partition(kv.Key, n)
		parts[p] = append(parts[p], kv)
	}
	return parts
}
