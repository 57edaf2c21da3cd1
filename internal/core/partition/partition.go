package partition

import "hash/fnv"

// Count is the default number of logical partitions.
const Count = 256

// For returns the shard in [0, shards) for a given key.
// Stable and deterministic: the same key always maps to the same shard.
// Uses FNV-32a (stdlib, fast, well-distributed). shards <= 0 falls back to Count.
func For(key string, shards int) int {
	if shards <= 0 {
		shards = Count
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(shards))
}
