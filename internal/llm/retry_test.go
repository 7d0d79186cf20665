package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func fastRetry(t *testing.T, p Provider, attempts int) (*retrying, *[]time.Duration) {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	r := WithRetry(p, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	}, log).(*retrying)
	var waits []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return r, &waits
}

var okReply = Reply{Content: json.RawMessage(`{"verdict":"yes","score":1}`)}

func TestRetry_TransientThenSuccess(t *testing.T) {
	s := NewScripted(
		Reply{Err: &Error{Kind: KindUnavailable}},
		Reply{Err: &Error{Kind: KindRateLimited, RetryAfter: 3 * time.Second}},
		okReply,
	)
	r, waits := fastRetry(t, s, 3)

	if _, err := r.Generate(context.Background(), UserPrompt("", "x", verdictSchema, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Calls()) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(s.Calls()))
	}
	w := *waits
	if w[0] < 80*time.Millisecond || w[0] > 120*time.Millisecond {
		t.Fatalf("first wait outside jitter band: %v", w[0])
	}
	if w[1] != 3*time.Second {
		t.Fatalf("retry-after not honored: %v", w[1])
	}
}

func TestRetry_InvalidRetriedOnce(t *testing.T) {
	bad := Reply{Content: json.RawMessage(`{"verdict":"?"}`)}
	s := NewScripted(bad, bad, okReply)
	r, _ := fastRetry(t, s, 5)

	_, err := r.Generate(context.Background(), UserPrompt("", "x", verdictSchema, 10))
	if k, _ := KindOf(err); k != KindInvalid {
		t.Fatalf("expected invalid error, got %v", err)
	}
	if len(s.Calls()) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(s.Calls()))
	}
}

func TestRetry_NotRetried(t *testing.T) {
	for _, err := range []error{
		&Error{Kind: KindTruncated},
		&Error{Kind: KindRejected},
		context.Canceled,
		&Error{Kind: KindUnavailable, Err: context.DeadlineExceeded},
	} {
		s := NewScripted(Reply{Err: err}, okReply)
		r, _ := fastRetry(t, s, 3)
		if _, got := r.Generate(context.Background(), Request{}); !errors.Is(got, err) {
			t.Fatalf("expected %v, got %v", err, got)
		}
		if len(s.Calls()) != 1 {
			t.Fatalf("%v: expected 1 call, got %d", err, len(s.Calls()))
		}
	}
}

func TestRetry_GivesUp(t *testing.T) {
	s := NewScripted()
	r, waits := fastRetry(t, s, 3)

	_, err := r.Generate(context.Background(), Request{})
	if k, _ := KindOf(err); k != KindUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if len(*waits) != 2 {
		t.Fatalf("expected 2 waits, got %d", len(*waits))
	}
}

func TestRetry_BackoffCapped(t *testing.T) {
	r, _ := fastRetry(t, NewScripted(), 10)
	for attempt := 0; attempt < 10; attempt++ {
		if d := r.backoff(attempt, &Error{}); d > 1200*time.Millisecond {
			t.Fatalf("attempt %d: backoff %v above cap", attempt, d)
		}
	}
}

func TestSleepCtx_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepCtx(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}
