package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// SequenceMixin adds the store-wide ordering number drawn from
// global_sequence. Tables that carry it can be interleaved by it.
type SequenceMixin struct {
	mixin.Schema
}

func (SequenceMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").Positive().Immutable(),
	}
}

func (SequenceMixin) Indexes() []ent.Index {
	return []ent.Index{index.Fields("sequence")}
}

// GlobalSequence is the single-row counter behind SequenceMixin.
type GlobalSequence struct {
	ent.Schema
}

func (GlobalSequence) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").Range(1, 1),
		field.Int64("next_val").Comment("Next sequence number to hand out"),
	}
}
