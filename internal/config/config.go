package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Pipeline    PipelineConfig
	Fetch       FetchConfig
	STT         STTConfig
	Translation TranslationConfig
	TTS         TTSConfig
}

type ServerConfig struct {
	Host     string
	Port     int
	LogLevel string
}

type PipelineConfig struct {
	Timeout time.Duration // 0 disables the per-request deadline
	TempDir string
}

type FetchConfig struct {
	Timeout  time.Duration // 0 keeps the http.Client default (no timeout)
	MaxBytes int64         // 0 means unlimited
}

type STTConfig struct {
	Backend      string // "openai" (any OpenAI-compatible API, Groq by default) or "local"
	APIKey       string
	BaseURL      string
	Model        string
	LocalBaseURL string // default: "http://localhost:8178"
}

type TranslationConfig struct {
	Backend        string // "google", "openai" or "anthropic"
	GoogleBaseURL  string
	OpenAIKey      string
	OpenAIBaseURL  string
	OpenAIModel    string
	AnthropicKey   string
	AnthropicModel string
}

type TTSConfig struct {
	Backend       string // "google" or "openai"
	GoogleBaseURL string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIVoice   string
}

// Load merges an optional .env file into the process environment and reads
// the configuration from it. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "error", err)
	}

	port, err := getEnvInt("SERVER_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	pipelineTimeout, err := getEnvDuration("PIPELINE_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid PIPELINE_TIMEOUT: %w", err)
	}

	fetchTimeout, err := getEnvDuration("FETCH_TIMEOUT", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}

	maxBytes, err := getEnvInt("FETCH_MAX_BYTES", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_MAX_BYTES: %w", err)
	}

	openAIKey := getEnv("OPENAI_API_KEY", "")

	cfg := &Config{
		Server: ServerConfig{
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			Port:     port,
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Pipeline: PipelineConfig{
			Timeout: pipelineTimeout,
			TempDir: getEnv("TEMP_DIR", os.TempDir()),
		},
		Fetch: FetchConfig{
			Timeout:  fetchTimeout,
			MaxBytes: int64(maxBytes),
		},
		STT: STTConfig{
			Backend:      getEnv("STT_BACKEND", "openai"),
			APIKey:       getEnv("STT_API_KEY", getEnv("GROQ_API_KEY", "")),
			BaseURL:      getEnv("STT_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:        getEnv("STT_MODEL", "whisper-large-v3"),
			LocalBaseURL: getEnv("STT_LOCAL_BASE_URL", "http://localhost:8178"),
		},
		Translation: TranslationConfig{
			Backend:        getEnv("TRANSLATION_BACKEND", "google"),
			GoogleBaseURL:  getEnv("TRANSLATION_GOOGLE_BASE_URL", "https://translate.googleapis.com"),
			OpenAIKey:      getEnv("TRANSLATION_OPENAI_KEY", openAIKey),
			OpenAIBaseURL:  getEnv("TRANSLATION_OPENAI_BASE_URL", ""),
			OpenAIModel:    getEnv("TRANSLATION_OPENAI_MODEL", "gpt-4o-mini"),
			AnthropicKey:   getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel: getEnv("TRANSLATION_ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		},
		TTS: TTSConfig{
			Backend:       getEnv("TTS_BACKEND", "google"),
			GoogleBaseURL: getEnv("TTS_GOOGLE_BASE_URL", "https://translate.google.com"),
			OpenAIKey:     getEnv("TTS_OPENAI_KEY", openAIKey),
			OpenAIBaseURL: getEnv("TTS_OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("TTS_OPENAI_MODEL", "tts-1"),
			OpenAIVoice:   getEnv("TTS_OPENAI_VOICE", "alloy"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Server.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks that the selected backends are known and have the
// credentials they need.
func (c *Config) Validate() error {
	var problems []string

	switch c.STT.Backend {
	case "openai":
		if c.STT.APIKey == "" {
			problems = append(problems, "GROQ_API_KEY (or STT_API_KEY)")
		}
	case "local":
	default:
		problems = append(problems, fmt.Sprintf("STT_BACKEND=%q is not supported", c.STT.Backend))
	}

	switch c.Translation.Backend {
	case "google":
	case "openai":
		if c.Translation.OpenAIKey == "" {
			problems = append(problems, "OPENAI_API_KEY (or TRANSLATION_OPENAI_KEY)")
		}
	case "anthropic":
		if c.Translation.AnthropicKey == "" {
			problems = append(problems, "ANTHROPIC_API_KEY")
		}
	default:
		problems = append(problems, fmt.Sprintf("TRANSLATION_BACKEND=%q is not supported", c.Translation.Backend))
	}

	switch c.TTS.Backend {
	case "google":
	case "openai":
		if c.TTS.OpenAIKey == "" {
			problems = append(problems, "OPENAI_API_KEY (or TTS_OPENAI_KEY)")
		}
	default:
		problems = append(problems, fmt.Sprintf("TTS_BACKEND=%q is not supported", c.TTS.Backend))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
