package partition

import (
	"strconv"
	"testing"
)

func TestFor_Determinism(t *testing.T) {
	// Same input must always produce the same partition.
	id := For("Canada", Count)
	for i := 0; i < 100; i++ {
		if got := For("Canada", Count); got != id {
			t.Fatalf("For(\"Canada\") = %d on iteration %d, want %d", got, i, id)
		}
	}
}

func TestFor_Range(t *testing.T) {
	inputs := []string{"", "a", "USA", "Brazil", "a-very-long-group-key-that-should-still-hash-correctly"}
	for _, shards := range []int{1, 3, 8, Count} {
		for _, s := range inputs {
			p := For(s, shards)
			if p < 0 || p >= shards {
				t.Errorf("For(%q, %d) = %d, want [0, %d)", s, shards, p, shards)
			}
		}
	}
}

func TestFor_NonPositiveShardsUsesDefault(t *testing.T) {
	if got, want := For("France", 0), For("France", Count); got != want {
		t.Errorf("For(\"France\", 0) = %d, want %d", got, want)
	}
	if got, want := For("France", -4), For("France", Count); got != want {
		t.Errorf("For(\"France\", -4) = %d, want %d", got, want)
	}
}

func TestFor_Distribution(t *testing.T) {
	// 1 000 keys should hit at least 100 distinct partitions (sanity check
	// that FNV-32a spreads well).
	seen := make(map[int]struct{})
	for i := 0; i < 1000; i++ {
		seen[For("group-"+strconv.Itoa(i), Count)] = struct{}{}
	}
	if len(seen) < 100 {
		t.Errorf("only %d distinct partitions from 1000 inputs, want >= 100", len(seen))
	}
}
