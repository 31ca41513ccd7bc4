package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/nikhilbhutani/voicetranslate/pkg/tokenizer"
)

// AnthropicConfig holds configuration for the Claude translation backend.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string // empty keeps the SDK default
	Model   string // default: "claude-3-5-haiku-latest"
}

type AnthropicTranslator struct {
	cfg    AnthropicConfig
	client anthropic.Client
}

func NewAnthropicTranslator(cfg AnthropicConfig) *AnthropicTranslator {
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-haiku-latest"
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicTranslator{
		cfg:    cfg,
		client: anthropic.NewClient(opts...),
	}
}

func (a *AnthropicTranslator) Name() string { return "anthropic" }

func (a *AnthropicTranslator) Translate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return &Result{Text: req.Text}, nil
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.cfg.Model),
		MaxTokens: int64(tokenizer.OutputBudget(req.Text, 256, 8192)),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt(req.TargetLang)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Text)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic translate: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return &Result{Text: strings.TrimSpace(sb.String())}, nil
}
