package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
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

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"local_kv", "llm_requests"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
	}
}

func TestKV_PutGetDelete(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing = %v, %v", ok, err)
	}

	if err := kv.Put(ctx, "k", "one"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, "k", "two"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok || v != "two" {
		t.Fatalf("get = %q, %v, %v; want two", v, ok, err)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Error("expected key to be gone")
	}
}

func TestKV_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Put(ctx, KeySettings, `{"theme":"dark"}`); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	v, ok, err := s.KV().Get(ctx, KeySettings)
	if err != nil || !ok || v != `{"theme":"dark"}` {
		t.Fatalf("get after reopen = %q, %v, %v", v, ok, err)
	}
}

type doc struct {
	Name string `json:"name"`
}

func TestReadWriteJSON(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	var d doc
	if ReadJSON(ctx, kv, "doc", &d) {
		t.Fatal("expected false for missing key")
	}

	WriteJSON(ctx, kv, nil, "doc", doc{Name: "x"})
	if !ReadJSON(ctx, kv, "doc", &d) || d.Name != "x" {
		t.Fatalf("read back = %+v", d)
	}

	_ = kv.Put(ctx, "doc", "{not json")
	if ReadJSON(ctx, kv, "doc", &d) {
		t.Error("expected false for corrupt document")
	}
}

func TestJSONHelpers_NeverFail(t *testing.T) {
	kv := NewMemoryKV()
	kv.Err = errors.New("disk full")
	ctx := context.Background()

	WriteJSON(ctx, kv, nil, "doc", doc{Name: "x"})

	var d doc
	if ReadJSON(ctx, kv, "doc", &d) {
		t.Error("expected false when storage errors")
	}
}

func TestEventRepo_LLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()
	start := time.Now().Add(-time.Minute)

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "m", Purpose: "tone-draft", InputTokens: 10, OutputTokens: 5, Success: true},
		{Provider: "mock", Model: "m", Purpose: "tone-draft", InputTokens: 7, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	u, err := repo.LLMUsageSince(ctx, start)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	want := LLMUsage{Requests: 2, Failures: 1, InputTokens: 17, OutputTokens: 5}
	if u != want {
		t.Errorf("usage = %+v, want %+v", u, want)
	}
}
