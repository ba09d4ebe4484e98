package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequence is the ordering number shared by feedback_records and
// llm_events, so rows from both can be merged in the order they happened.
type sequence struct {
	mu sync.Mutex
	db *sql.DB
}

// The first call creates the row; later calls bump it.
const nextSequence = `
INSERT INTO global_sequence (id, next_val) VALUES (1, 2)
ON CONFLICT(id) DO UPDATE SET next_val = next_val + 1
RETURNING next_val - 1`

func (s *sequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if err := s.db.QueryRowContext(ctx, nextSequence).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
