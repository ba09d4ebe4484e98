package store

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "fido.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func testKV(t *testing.T, kv KV) {
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v", ok, err)
	}

	if err := kv.Put(ctx, "workitems/u1", []byte(`[1]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, "workitems/u1", []byte(`[1,2]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := kv.Get(ctx, "workitems/u1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `[1,2]` {
		t.Errorf("last writer should win, got %s", got)
	}

	kv.Put(ctx, "workitems/u2", []byte(`[]`))
	kv.Put(ctx, "profiles/u1", []byte(`{}`))

	keys, err := kv.List(ctx, "workitems/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if want := []string{"workitems/u1", "workitems/u2"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("list = %v, want %v", keys, want)
	}

	if err := kv.Delete(ctx, "workitems/u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kv.Delete(ctx, "workitems/u1"); err != nil {
		t.Fatalf("delete twice: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "workitems/u1"); ok {
		t.Error("key still present after delete")
	}
}

func TestSQLiteKV(t *testing.T) {
	testKV(t, openTestStore(t).KV())
}

func TestMemoryKV(t *testing.T) {
	testKV(t, NewMemoryKV())
}

func TestSQLiteKV_ListPrefixIsCaseSensitive(t *testing.T) {
	kv := openTestStore(t).KV()
	ctx := context.Background()
	kv.Put(ctx, "WorkItems/x", []byte("a"))
	kv.Put(ctx, "workitems/y", []byte("b"))

	keys, err := kv.List(ctx, "workitems/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 1 || keys[0] != "workitems/y" {
		t.Fatalf("list = %v", keys)
	}
}

func TestSQLiteKV_ConcurrentPuts(t *testing.T) {
	kv := openTestStore(t).KV()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := kv.Put(ctx, "shared", []byte(fmt.Sprintf("v%d", i))); err != nil {
				t.Errorf("put %d: %v", i, err)
			}
		}()
	}
	wg.Wait()

	got, ok, err := kv.Get(ctx, "shared")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(got) < 2 || got[0] != 'v' {
		t.Fatalf("value torn: %q", got)
	}
}

func TestFeedbackRepo_SaveAndList(t *testing.T) {
	repo := openTestStore(t).FeedbackRepo()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	for i, target := range []string{"Sam", "Ana", "Sam"} {
		err := repo.Save(ctx, FeedbackRecord{
			ID:          fmt.Sprintf("rec-%d", i),
			SessionID:   fmt.Sprintf("sess-%d", i),
			Assessor:    "Lee",
			Target:      target,
			Payload:     []byte(`{"ok":true}`),
			CompletedAt: now.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	recs, err := repo.ListByTarget(ctx, "Sam", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records for Sam, got %d", len(recs))
	}
	if recs[0].ID != "rec-2" {
		t.Errorf("newest first: got %s", recs[0].ID)
	}
	if !recs[0].CompletedAt.Equal(now.Add(2 * time.Minute)) {
		t.Errorf("completed_at = %v", recs[0].CompletedAt)
	}
	if string(recs[0].Payload) != `{"ok":true}` {
		t.Errorf("payload = %s", recs[0].Payload)
	}

	all, _ := repo.ListByTarget(ctx, "", 1)
	if len(all) != 1 {
		t.Errorf("limit not applied: %d", len(all))
	}

	if err := repo.Save(ctx, FeedbackRecord{ID: "rec-0", Target: "Sam"}); err == nil {
		t.Error("expected error saving duplicate ID")
	}
}

func TestEventRepo_AppendQueryAndUsage(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "groq", Model: "llama-3.3-70b-versatile", Purpose: "question-gen", SessionID: "s1", InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true, RequestBody: "[system]\nhi"},
		{Provider: "groq", Model: "llama-3.3-70b-versatile", Purpose: "question-gen", SessionID: "s2", InputTokens: 200, OutputTokens: 40, LatencyMs: 500, Success: true},
		{Provider: "groq", Model: "llama-3.1-8b-instant", Purpose: "language", InputTokens: 50, OutputTokens: 10, LatencyMs: 100, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Purpose != "language" || got[0].Success {
		t.Errorf("newest event wrong: %+v", got[0])
	}
	if got[0].Sequence <= got[1].Sequence {
		t.Errorf("sequence not descending: %d, %d", got[0].Sequence, got[1].Sequence)
	}

	after, _ := repo.QueryLLMEvents(ctx, QueryOpts{After: got[1].Sequence})
	if len(after) != 1 {
		t.Errorf("after filter: got %d events", len(after))
	}

	questions, _ := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "question-gen"})
	if len(questions) != 2 {
		t.Errorf("purpose filter: got %d events", len(questions))
	}
	s1, _ := repo.QueryLLMEvents(ctx, QueryOpts{SessionID: "s1"})
	if len(s1) != 1 || s1[0].SessionID != "s1" {
		t.Errorf("session filter: got %+v", s1)
	}

	first, err := repo.GetLLMEvent(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first == nil || first.RequestBody != "[system]\nhi" {
		t.Fatalf("get returned %+v", first)
	}
	if first.Timestamp.IsZero() {
		t.Error("timestamp not recorded")
	}
	if missing, err := repo.GetLLMEvent(ctx, 99); err != nil || missing != nil {
		t.Errorf("missing event: %+v, %v", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 purposes, got %d", len(byPurpose))
	}
	qg := byPurpose[1]
	if qg.Purpose != "question-gen" || qg.Calls != 2 || qg.InputTokens != 300 || qg.OutputTokens != 60 || qg.AvgLatencyMs != 400 {
		t.Errorf("question-gen usage = %+v", qg)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "llama-3.1-8b-instant" {
		t.Errorf("usage by model = %+v", byModel)
	}
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "question-gen", Success: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.FeedbackRepo().Save(ctx, FeedbackRecord{ID: "r1", Target: "Sam", CompletedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	evs, _ := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	recs, _ := s.FeedbackRepo().ListByTarget(ctx, "Sam", 0)
	if recs[0].Sequence <= evs[0].Sequence {
		t.Fatalf("feedback sequence %d should follow event sequence %d", recs[0].Sequence, evs[0].Sequence)
	}
}

func TestSequenceStartsAtOne(t *testing.T) {
	s := openTestStore(t)
	for want := int64(1); want <= 3; want++ {
		got, err := s.seq.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("Next = %d, want %d", got, want)
		}
	}
}
