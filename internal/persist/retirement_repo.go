package persist

import (
	"context"
	"fmt"
)

// RetirementRecord is one leaderboard row (spec.md §4.6, §6 leaderboard
// table).
type RetirementRecord struct {
	Name     string
	Score    int
	PlayTime float64
}

// RetirementRepo persists retirement records to the leaderboard table.
type RetirementRepo struct {
	db *DB
}

func NewRetirementRepo(db *DB) *RetirementRepo {
	return &RetirementRepo{db: db}
}

// Insert durably appends one retirement record. Must not return until the
// write is committed (spec.md §4.6: "must be durable before its return").
func (r *RetirementRepo) Insert(ctx context.Context, rec RetirementRecord) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO retirement_records (name, score, play_time) VALUES ($1, $2, $3)`,
		rec.Name, rec.Score, rec.PlayTime,
	)
	if err != nil {
		return fmt.Errorf("insert retirement record: %w", err)
	}
	return nil
}

// Query returns up to limit records starting at offset, ordered by
// (score DESC, playTime ASC, name ASC) per spec.md §4.6.
func (r *RetirementRepo) Query(ctx context.Context, offset, limit int) ([]RetirementRecord, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT name, score, play_time FROM retirement_records
		 ORDER BY score DESC, play_time ASC, name ASC
		 OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query retirement records: %w", err)
	}
	defer rows.Close()

	var out []RetirementRecord
	for rows.Next() {
		var rec RetirementRecord
		if err := rows.Scan(&rec.Name, &rec.Score, &rec.PlayTime); err != nil {
			return nil, fmt.Errorf("scan retirement record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate retirement records: %w", err)
	}
	return out, nil
}
