package retire

import (
	"context"

	"github.com/collectgame/server/internal/persist"
)

// PgSink adapts persist.RetirementRepo to the Sink interface.
type PgSink struct {
	repo *persist.RetirementRepo
}

func NewPgSink(repo *persist.RetirementRepo) *PgSink {
	return &PgSink{repo: repo}
}

func (s *PgSink) Insert(ctx context.Context, rec Record) error {
	return s.repo.Insert(ctx, persist.RetirementRecord{
		Name:     rec.Name,
		Score:    rec.Score,
		PlayTime: rec.PlaySeconds,
	})
}

func (s *PgSink) Query(ctx context.Context, offset, limit int) ([]Record, error) {
	rows, err := s.repo.Query(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = Record{Name: r.Name, Score: r.Score, PlaySeconds: r.PlayTime}
	}
	return out, nil
}
