// Package translation converts text into a target language through a
// configurable backend. The source language is always detected by the backend.
package translation

import (
	"context"
	"fmt"

	"github.com/nikhilbhutani/voicetranslate/internal/config"
)

// Request is the input for a translation call.
type Request struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

// Result is the translated text plus the source language, when the backend reports it.
type Result struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang,omitempty"`
}

// Translator is the interface for translation backends.
type Translator interface {
	Translate(ctx context.Context, req Request) (*Result, error)
	Name() string
}

// New builds the backend selected by TRANSLATION_BACKEND.
func New(cfg config.TranslationConfig) (Translator, error) {
	switch cfg.Backend {
	case "", "google":
		return NewGoogleTranslator(GoogleConfig{BaseURL: cfg.GoogleBaseURL}), nil
	case "openai":
		return NewOpenAITranslator(OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}), nil
	case "anthropic":
		return NewAnthropicTranslator(AnthropicConfig{
			APIKey: cfg.AnthropicKey,
			Model:  cfg.AnthropicModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown translation backend %q", cfg.Backend)
	}
}

// systemPrompt instructs chat models to behave like a plain translation API.
func systemPrompt(targetLang string) string {
	return fmt.Sprintf("You are a translation engine. Detect the language of the user's text and translate it "+
		"into the language identified by the code %q. Reply with the translated text only, without quotes, "+
		"notes or explanations. If the text is empty, reply with an empty message.", targetLang)
}
