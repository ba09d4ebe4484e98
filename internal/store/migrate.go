package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/fido/ent/schema"
)

const sequenceTable = "global_sequence"

// tables builds the migration targets from the ent schema definitions.
func tables() []*schema.Table {
	seq := entschema.SequenceMixin{}
	return []*schema.Table{
		tableFor(sequenceTable, "id", entschema.GlobalSequence{}.Fields(), nil),
		tableFor(kvTable, "key", entschema.KVEntry{}.Fields(), nil),
		tableFor(feedbackTable, "id",
			append(seq.Fields(), entschema.FeedbackRecord{}.Fields()...),
			append(seq.Indexes(), entschema.FeedbackRecord{}.Indexes()...)),
		tableFor(llmEventsTable, "id",
			append(seq.Fields(), entschema.LLMRequestEvent{}.Fields()...),
			append(seq.Indexes(), entschema.LLMRequestEvent{}.Indexes()...)),
	}
}

// tableFor lays out one table. pk names the primary key column; when no
// field declares it, an auto-increment integer id is added.
func tableFor(name, pk string, fields []ent.Field, indexes []ent.Index) *schema.Table {
	t := &schema.Table{Name: name}
	byName := make(map[string]*schema.Column, len(fields)+1)
	for _, f := range fields {
		c := columnFor(f.Descriptor())
		byName[c.Name] = c
		t.Columns = append(t.Columns, c)
	}

	primary, ok := byName[pk]
	if !ok {
		primary = &schema.Column{Name: pk, Type: field.TypeInt, Increment: true}
		byName[pk] = primary
		t.Columns = append([]*schema.Column{primary}, t.Columns...)
	}
	primary.Unique = false
	t.PrimaryKey = []*schema.Column{primary}

	for _, idx := range indexes {
		d := idx.Descriptor()
		ix := &schema.Index{
			Name:   strings.ToLower(name + "_" + strings.Join(d.Fields, "_")),
			Unique: d.Unique,
		}
		for _, f := range d.Fields {
			ix.Columns = append(ix.Columns, byName[f])
		}
		t.Indexes = append(t.Indexes, ix)
	}
	return t
}

func columnFor(d *field.Descriptor) *schema.Column {
	c := &schema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Size:     d.Size,
		Unique:   d.Unique,
		Nullable: d.Optional || d.Nillable,
	}
	// Literal defaults only; func defaults such as time.Now are filled in by
	// the repos.
	switch v := d.Default.(type) {
	case string, int, int64, bool, float64:
		c.Default = v
	}
	// Times are stored as RFC 3339 text so the repos control the format.
	if d.Info.Type == field.TypeTime {
		c.SchemaType = map[string]string{dialect.SQLite: "text"}
	}
	return c
}

// migrate creates missing tables, columns, and indexes.
func migrate(ctx context.Context, db *sql.DB) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dialect.SQLite, db))
	if err != nil {
		return fmt.Errorf("prepare migration: %w", err)
	}
	if err := m.Create(ctx, tables()...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
