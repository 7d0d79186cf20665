package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI calls the chat completions API with a strict JSON schema response
// format. Pointed at another base URL it serves OpenAI-compatible gateways
// such as OpenRouter.
type OpenAI struct {
	client *openai.Client
	model  string
	name   string
}

func NewOpenAI(cfg ProviderConfig) (*OpenAI, error) {
	return newOpenAICompatible("openai", cfg)
}

// NewOpenRouter is NewOpenAI against the OpenRouter gateway.
func NewOpenRouter(cfg ProviderConfig) (*OpenAI, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenRouterURL
	}
	return newOpenAICompatible("openrouter", cfg)
}

func newOpenAICompatible(name string, cfg ProviderConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: missing API key", name)
	}
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(c), model: cfg.Model, name: name}, nil
}

func (p *OpenAI) ModelID() string { return p.model }

func (p *OpenAI) Generate(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("%s: encode schema: %w", p.name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: json.RawMessage(def),
				Strict: true,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, fromStatus(apiErr.HTTPStatusCode, err)
		}
		return nil, &Error{Kind: KindUnavailable, Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, invalid(nil, "%s: response has no choices", p.name)
	}

	choice := resp.Choices[0]
	stop := StopEnd
	if choice.FinishReason == openai.FinishReasonLength {
		stop = StopMaxTokens
	}
	usage := Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	return finish(req, json.RawMessage(choice.Message.Content), usage, resp.Model, stop)
}
