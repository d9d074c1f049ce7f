// Package retire defines the retirement sink contract (spec.md §4.6): an
// append-only store for leaderboard records, queryable in
// (score DESC, playSeconds ASC, name ASC) order.
package retire

import "context"

// Record is one retirement: a dog's final name, score, and total play time.
type Record struct {
	Name        string
	Score       int
	PlaySeconds float64
}

// Sink is implemented by PgSink (an adapter over persist.RetirementRepo) in
// production and by MemorySink in tests.
type Sink interface {
	Insert(ctx context.Context, rec Record) error
	Query(ctx context.Context, offset, limit int) ([]Record, error)
}
