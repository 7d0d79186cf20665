package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/abhisek/emoiq/internal/store"
)

type memoryEvents struct {
	events []store.LLMRequestEventData
	err    error
}

func (m *memoryEvents) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, d)
	return nil
}

func (m *memoryEvents) LLMUsageSince(context.Context, time.Time) (store.LLMUsage, error) {
	return store.LLMUsage{}, nil
}

func TestRecorder_Success(t *testing.T) {
	repo := &memoryEvents{}
	log, _ := logtest.NewNullLogger()
	s := NewScripted(Reply{Content: json.RawMessage(`"hi"`), Usage: Usage{InputTokens: 7, OutputTokens: 3}})
	p := WithRecorder(s, "mock", repo, log)

	ctx := WithPurpose(context.Background(), "draft")
	if _, err := p.Generate(ctx, UserPrompt("", "x", nil, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if !ev.Success || ev.Purpose != "draft" || ev.Provider != "mock" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.InputTokens != 7 || ev.OutputTokens != 3 {
		t.Fatalf("unexpected tokens %+v", ev)
	}
}

func TestRecorder_Failure(t *testing.T) {
	repo := &memoryEvents{}
	log, hook := logtest.NewNullLogger()
	p := WithRecorder(NewScripted(), "mock", repo, log)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	ev := repo.events[0]
	if ev.Success || ev.ErrorMessage == "" || ev.Model != "scripted" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if hook.LastEntry().Level != logrus.WarnLevel {
		t.Fatalf("expected warn log, got %v", hook.LastEntry().Level)
	}
}

func TestRecorder_RepoFailureIgnored(t *testing.T) {
	repo := &memoryEvents{err: errors.New("disk full")}
	log, hook := logtest.NewNullLogger()
	p := WithRecorder(NewScripted(Reply{Content: json.RawMessage(`1`)}), "mock", repo, log)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("repo failure leaked: %v", err)
	}
	if hook.LastEntry().Message != "record llm request" {
		t.Fatalf("unexpected last log %q", hook.LastEntry().Message)
	}
}

func TestNew(t *testing.T) {
	if _, err := New(context.Background(), Config{}, nil, nil); err == nil {
		t.Fatal("expected error without provider")
	}
	cfg := DefaultConfig()
	cfg.Provider = "openai"
	if _, err := New(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected missing key error")
	}
	cfg.OpenAI.APIKey = "k"
	p, err := New(context.Background(), cfg, &memoryEvents{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("unexpected model %q", p.ModelID())
	}
	cfg.Provider = "mock"
	p, _ = New(context.Background(), cfg, nil, nil)
	if _, ok := p.(*Scripted); !ok {
		t.Fatalf("expected scripted provider, got %T", p)
	}
}
