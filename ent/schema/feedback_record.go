package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// FeedbackRecord is one completed feedback session. The full record is kept
// as JSON in payload; the other columns exist for lookups. Stored in the
// feedback_records table.
type FeedbackRecord struct {
	ent.Schema
}

func (FeedbackRecord) Mixin() []ent.Mixin {
	return []ent.Mixin{SequenceMixin{}}
}

func (FeedbackRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Comment("ULID of the record"),
		field.String("session_id").
			Immutable(),
		field.String("assessor").
			Immutable(),
		field.String("target").
			Immutable().
			Comment("Person the feedback is about"),
		field.Text("payload").
			Immutable(),
		field.Time("completed_at").
			Default(time.Now).
			Immutable(),
	}
}

func (FeedbackRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("target", "sequence"),
	}
}
