package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

type retrying struct {
	inner Provider
	cfg   RetryConfig
	log   logrus.FieldLogger
	sleep func(context.Context, time.Duration) error
}

// WithRetry retries transient failures with exponential backoff. Schema
// mismatches get one extra try; truncation and rejected requests are
// returned immediately.
func WithRetry(p Provider, cfg RetryConfig, log logrus.FieldLogger) Provider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retrying{inner: p, cfg: cfg, log: log, sleep: sleepCtx}
}

func (r *retrying) ModelID() string { return r.inner.ModelID() }

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	var err error
	invalidSeen := false
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, &invalidSeen) || attempt == r.cfg.MaxAttempts-1 {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"wait":    wait,
			"model":   r.inner.ModelID(),
		}).Debug("retrying llm request")
		if serr := r.sleep(ctx, wait); serr != nil {
			return nil, serr
		}
	}
	return nil, err
}

func retryable(err error, invalidSeen *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	kind, ok := KindOf(err)
	if !ok {
		return true
	}
	switch kind {
	case KindTruncated, KindRejected:
		return false
	case KindInvalid:
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
		return true
	default:
		return true
	}
}

func (r *retrying) backoff(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	if r.cfg.MaxWait > 0 {
		wait = math.Min(wait, float64(r.cfg.MaxWait))
	}
	// +/-20% jitter
	wait *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(math.Max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
