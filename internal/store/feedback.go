package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

const feedbackTable = "feedback_records"

// feedbackRepo implements FeedbackRepo on the feedback_records table.
type feedbackRepo struct {
	db  *sql.DB
	seq *sequence
}

func (r *feedbackRepo) Save(ctx context.Context, rec FeedbackRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("save feedback record: empty ID")
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := builder().
		Insert(feedbackTable).
		Columns("id", "sequence", "session_id", "assessor", "target", "payload", "completed_at").
		Values(rec.ID, seqNum, rec.SessionID, rec.Assessor, rec.Target, string(rec.Payload), formatTime(rec.CompletedAt)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save feedback record %s: %w", rec.ID, err)
	}
	return nil
}

func (r *feedbackRepo) ListByTarget(ctx context.Context, target string, limit int) ([]FeedbackRecord, error) {
	sel := builder().
		Select("id", "sequence", "session_id", "assessor", "target", "payload", "completed_at").
		From(entsql.Table(feedbackTable)).
		OrderBy(entsql.Desc("sequence"))
	if target != "" {
		sel = sel.Where(entsql.EQ("target", target))
	}
	if limit > 0 {
		sel = sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feedback records: %w", err)
	}
	defer rows.Close()

	var out []FeedbackRecord
	for rows.Next() {
		var (
			rec       FeedbackRecord
			payload   string
			completed string
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.SessionID, &rec.Assessor, &rec.Target, &payload, &completed); err != nil {
			return nil, fmt.Errorf("scan feedback record: %w", err)
		}
		rec.Payload = []byte(payload)
		rec.CompletedAt = parseTime(completed)
		out = append(out, rec)
	}
	return out, rows.Err()
}
