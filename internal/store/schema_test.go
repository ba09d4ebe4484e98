package store

import (
	"context"
	"path/filepath"
	"testing"

	"entgo.io/ent"
	"github.com/abhisek/fido/ent/schema"
)

// Each ent schema must describe columns that exist in the migrated table.
func TestTablesMatchSchemas(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		table  string
		fields []ent.Field
	}{
		{"kv", schema.KVEntry{}.Fields()},
		{"global_sequence", schema.GlobalSequence{}.Fields()},
		{"feedback_records", append(schema.SequenceMixin{}.Fields(), schema.FeedbackRecord{}.Fields()...)},
		{llmEventsTable, append(schema.SequenceMixin{}.Fields(), schema.LLMRequestEvent{}.Fields()...)},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			rows, err := s.DB().Query("SELECT name FROM pragma_table_info(?)", tt.table)
			if err != nil {
				t.Fatalf("table info: %v", err)
			}
			defer rows.Close()

			cols := make(map[string]bool)
			for rows.Next() {
				var name string
				if err := rows.Scan(&name); err != nil {
					t.Fatal(err)
				}
				cols[name] = true
			}
			if len(cols) == 0 {
				t.Fatalf("table %s does not exist", tt.table)
			}
			for _, f := range tt.fields {
				if name := f.Descriptor().Name; !cols[name] {
					t.Errorf("column %s.%s missing", tt.table, name)
				}
			}
		})
	}
}

func TestMigrate_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fido.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if err := s.KV().Put(ctx, "k", []byte(`"v"`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, ok, err := s.KV().Get(ctx, "k")
	if err != nil || !ok || string(got) != `"v"` {
		t.Fatalf("Get after reopen = %q, %v, %v", got, ok, err)
	}
}

func TestMigrate_KeysAndIndexes(t *testing.T) {
	s := openTestStore(t)

	pk := func(table string) string {
		var name string
		err := s.DB().QueryRow("SELECT name FROM pragma_table_info(?) WHERE pk = 1", table).Scan(&name)
		if err != nil {
			t.Fatalf("primary key of %s: %v", table, err)
		}
		return name
	}
	for table, want := range map[string]string{
		"kv":               "key",
		"feedback_records": "id",
		llmEventsTable:     "id",
		"global_sequence":  "id",
	} {
		if got := pk(table); got != want {
			t.Errorf("%s primary key = %s, want %s", table, got, want)
		}
	}

	var n int
	err := s.DB().QueryRow(`SELECT count(*) FROM sqlite_master
		WHERE type = 'index' AND name IN ('feedback_records_target_sequence', 'llm_events_session_id')`).Scan(&n)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("found %d of 2 lookup indexes", n)
	}
}
