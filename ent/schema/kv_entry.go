package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// KVEntry is one key of the last-writer-wins store that holds work items
// and leaderboard accounts. Stored in the kv table.
type KVEntry struct {
	ent.Schema
}

func (KVEntry) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			Unique().
			NotEmpty().
			Comment("Namespaced key, e.g. workitems/<user>"),
		field.Bytes("value").
			Comment("JSON document"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}
