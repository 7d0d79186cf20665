package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/emoiq/internal/store"
)

// New builds the configured provider wrapped as
// caller -> retry -> recorder -> timeout -> provider, so every attempt is
// recorded and bounded by cfg.Timeout.
// The mock provider is an empty Scripted and is returned unwrapped.
func New(ctx context.Context, cfg Config, repo store.EventRepo, log logrus.FieldLogger) (Provider, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "mock":
		return NewScripted(), nil
	case "anthropic":
		base, err = NewAnthropic(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAI(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouter(cfg.OpenRouter)
	case "gemini":
		base, err = NewGemini(ctx, cfg.Gemini)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	if cfg.Timeout > 0 {
		base = &timed{inner: base, timeout: cfg.Timeout}
	}
	recorded := WithRecorder(base, cfg.Provider, repo, log)
	return WithRetry(recorded, cfg.Retry, log), nil
}

type timed struct {
	inner   Provider
	timeout time.Duration
}

func (t *timed) ModelID() string { return t.inner.ModelID() }

func (t *timed) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}
