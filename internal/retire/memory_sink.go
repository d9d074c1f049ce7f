package retire

import (
	"context"
	"sort"
	"sync"
)

// MemorySink is an in-process Sink for tests; it applies the same
// (score DESC, playSeconds ASC, name ASC) ordering contract as the Postgres
// sink.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Insert(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *MemorySink) Query(_ context.Context, offset, limit int) ([]Record, error) {
	s.mu.Lock()
	sorted := make([]Record, len(s.records))
	copy(sorted, s.records)
	s.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.PlaySeconds != b.PlaySeconds {
			return a.PlaySeconds < b.PlaySeconds
		}
		return a.Name < b.Name
	})

	if offset >= len(sorted) {
		return []Record{}, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}
