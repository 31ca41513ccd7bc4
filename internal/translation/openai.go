package translation

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for the chat-completion translation backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty keeps the go-openai default
	Model   string // default: "gpt-4o-mini"
}

// OpenAITranslator asks a chat model for a translation.
type OpenAITranslator struct {
	cfg    OpenAIConfig
	client *openai.Client
}

func NewOpenAITranslator(cfg OpenAIConfig) *OpenAITranslator {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAITranslator{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (o *OpenAITranslator) Name() string { return "openai" }

func (o *OpenAITranslator) Translate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return &Result{Text: req.Text}, nil
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(req.TargetLang)},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai translate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai translate: no choices returned")
	}

	return &Result{Text: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}
