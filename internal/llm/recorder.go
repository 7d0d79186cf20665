package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/emoiq/internal/store"
)

type recording struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	log      logrus.FieldLogger
	now      func() time.Time
}

// WithRecorder appends one usage row per call to repo and logs it. A
// failed append is logged and does not affect the call.
func WithRecorder(p Provider, provider string, repo store.EventRepo, log logrus.FieldLogger) Provider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &recording{inner: p, provider: provider, repo: repo, log: log, now: time.Now}
}

func (r *recording) ModelID() string { return r.inner.ModelID() }

func (r *recording) Generate(ctx context.Context, req Request) (*Response, error) {
	start := r.now()
	resp, err := r.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:  r.provider,
		Model:     r.inner.ModelID(),
		Purpose:   Purpose(ctx),
		LatencyMs: r.now().Sub(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	fields := logrus.Fields{
		"provider": ev.Provider,
		"model":    ev.Model,
		"purpose":  ev.Purpose,
		"latency":  ev.LatencyMs,
		"tokens":   ev.InputTokens + ev.OutputTokens,
	}
	if err != nil {
		r.log.WithFields(fields).WithError(err).Warn("llm request failed")
	} else {
		r.log.WithFields(fields).Debug("llm request")
	}

	if r.repo != nil {
		// Use a fresh context so a cancelled request is still recorded.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if rerr := r.repo.AppendLLMRequest(rctx, ev); rerr != nil {
			r.log.WithError(rerr).Warn("record llm request")
		}
	}
	return resp, err
}
