package tts

import (
	"context"
	"fmt"

	"github.com/nikhilbhutani/voicetranslate/internal/config"
)

// SynthesisRequest holds the parameters for text-to-speech generation.
type SynthesisRequest struct {
	Input    string  `json:"input"`
	Language string  `json:"language"`
	Voice    string  `json:"voice,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
}

// SynthesisResult holds the generated audio and its content type.
type SynthesisResult struct {
	Audio       []byte
	ContentType string // always an MP3 type for the bundled backends
}

// TTSProvider is the interface for text-to-speech backends.
type TTSProvider interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
	Name() string
}

// New builds the backend selected by TTS_BACKEND.
func New(cfg config.TTSConfig) (TTSProvider, error) {
	switch cfg.Backend {
	case "", "google":
		return NewGoogleTTS(GoogleTTSConfig{BaseURL: cfg.GoogleBaseURL}), nil
	case "openai":
		return NewOpenAITTS(OpenAITTSConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Voice:   cfg.OpenAIVoice,
		}), nil
	default:
		return nil, fmt.Errorf("unknown tts backend %q", cfg.Backend)
	}
}
