package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nikhilbhutani/voicetranslate/pkg/chunker"
)

const googleUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// GoogleTTSConfig holds configuration for the Google Translate speech backend.
type GoogleTTSConfig struct {
	BaseURL string // default: "https://translate.google.com"
}

// GoogleTTS synthesizes speech through the public translate_tts endpoint, the
// same one the Translate web page uses for its speaker button. The endpoint
// only reads short inputs, so text is split into pieces and the resulting MP3
// frames are concatenated.
type GoogleTTS struct {
	cfg        GoogleTTSConfig
	httpClient *http.Client
}

// NewGoogleTTS creates a GoogleTTS with sensible defaults applied.
func NewGoogleTTS(cfg GoogleTTSConfig) *GoogleTTS {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://translate.google.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &GoogleTTS{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (g *GoogleTTS) Name() string { return "google-tts" }

func (g *GoogleTTS) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	if req.Language == "" {
		return nil, fmt.Errorf("language is required")
	}

	pieces := chunker.Split(req.Input, chunker.SpeechOptions())
	if len(pieces) == 0 {
		return nil, fmt.Errorf("no text to speak")
	}

	var audio bytes.Buffer
	for i, piece := range pieces {
		if err := g.fetchPiece(ctx, &audio, piece, req.Language, i, len(pieces)); err != nil {
			return nil, fmt.Errorf("tts piece %d/%d: %w", i+1, len(pieces), err)
		}
	}

	return &SynthesisResult{
		Audio:       audio.Bytes(),
		ContentType: "audio/mpeg",
	}, nil
}

func (g *GoogleTTS) fetchPiece(ctx context.Context, dst io.Writer, text, lang string, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("q", text)
	q.Set("tl", lang)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(text)))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("User-Agent", googleUserAgent)
	httpReq.Header.Set("Referer", g.cfg.BaseURL+"/")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tts failed (status %d, lang %q): %s", resp.StatusCode, lang, strings.TrimSpace(string(body)))
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("empty audio response")
	}
	return nil
}
