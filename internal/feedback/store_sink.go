package feedback

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/fido/internal/store"
)

// StoreSink persists completed records to a FeedbackRepo.
type StoreSink struct {
	repo store.FeedbackRepo
}

// NewStoreSink creates a sink backed by repo.
func NewStoreSink(repo store.FeedbackRepo) *StoreSink {
	return &StoreSink{repo: repo}
}

// Deliver implements Sink.
func (s *StoreSink) Deliver(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode feedback record: %w", err)
	}
	return s.repo.Save(ctx, store.FeedbackRecord{
		ID:          rec.ID,
		SessionID:   rec.SessionID,
		Assessor:    rec.Assessor,
		Target:      rec.Target,
		Payload:     payload,
		CompletedAt: rec.CompletedAt,
	})
}

// ListRecords returns stored records about target, newest first. An empty
// target lists all records.
func ListRecords(ctx context.Context, repo store.FeedbackRepo, target string, limit int) ([]Record, error) {
	rows, err := repo.ListByTarget(ctx, target, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		var rec Record
		if err := json.Unmarshal(row.Payload, &rec); err != nil {
			return nil, fmt.Errorf("decode feedback record %s: %w", row.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
