// Package llm is a thin provider abstraction over the Anthropic, OpenAI
// (and OpenAI-compatible) and Gemini SDKs. Responses are JSON, validated
// against the request schema when one is given.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured response per request.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the configured model identifier.
	ModelID() string
}

// Request is a single-turn or short multi-turn prompt.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Role of a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// UserPrompt is shorthand for a request with one user message.
func UserPrompt(system, prompt string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}

// Schema is a named JSON Schema the response must satisfy. Name is also
// the cache key for the compiled schema.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a generated answer. Content holds the JSON document when a
// schema was requested, otherwise the raw text.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// StopReason is normalized across providers.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

type purposeKey struct{}

// WithPurpose labels requests made with ctx in the usage log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// Purpose returns the label set by WithPurpose, or "unlabeled".
func Purpose(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unlabeled"
}

// resolveModel expands a short alias; unknown names pass through.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
