package toppick

import (
	"sync"

	"github.com/aevon-lab/toppick/internal/core/partition"
)

// PickSharded is Pick with groups spread over workers. Events are routed to a
// shard by hashing their group key, so every group is reduced by exactly one
// worker and no state is shared. The output is identical to Pick.
func (p *Picker) PickSharded(events []PurchaseEvent, attributes map[string]ItemAttributes, workers int) []TopItem {
	return Enrich(p.WinnersSharded(events, workers), attributes)
}

// WinnersSharded is Winners with groups spread over workers.
func (p *Picker) WinnersSharded(events []PurchaseEvent, workers int) []GroupWinner {
	if workers <= 1 || len(events) == 0 {
		return p.Winners(events)
	}

	shards := make([][]PurchaseEvent, workers)
	for _, evt := range events {
		s := partition.For(evt.GroupKey, workers)
		shards[s] = append(shards[s], evt)
	}

	jobs := make(chan []PurchaseEvent, workers)
	results := make(chan []GroupWinner, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for shard := range jobs {
				results <- p.Winners(shard)
			}
		}()
	}

	for _, shard := range shards {
		if len(shard) == 0 {
			continue
		}
		jobs <- shard
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	merged := make([]GroupWinner, 0)
	for winners := range results {
		merged = append(merged, winners...)
	}
	sortWinners(merged)
	return merged
}
