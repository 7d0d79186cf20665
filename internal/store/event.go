package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMUsage aggregates logged LLM requests.
type LLMUsage struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo records LLM calls made while authoring puzzles.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsageSince sums requests logged at or after since.
	LLMUsageSince(ctx context.Context, since time.Time) (LLMUsage, error)
}

type eventRepo struct {
	drv *entsql.Driver
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(llmRequestTable).
		Columns("created_at", "provider", "model", "purpose",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		Values(time.Now().UTC(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMUsageSince(ctx context.Context, since time.Time) (LLMUsage, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("success", "input_tokens", "output_tokens").
		From(entsql.Table(llmRequestTable)).
		Where(entsql.GTE("created_at", since.UTC())).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return LLMUsage{}, fmt.Errorf("query LLM requests: %w", err)
	}
	defer rows.Close()

	var u LLMUsage
	for rows.Next() {
		var (
			ok          bool
			in, outToks int
		)
		if err := rows.Scan(&ok, &in, &outToks); err != nil {
			return LLMUsage{}, fmt.Errorf("scan LLM request: %w", err)
		}
		u.Requests++
		if !ok {
			u.Failures++
		}
		u.InputTokens += in
		u.OutputTokens += outToks
	}
	return u, rows.Err()
}
