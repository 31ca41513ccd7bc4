package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/nikhilbhutani/voicetranslate/pkg/chunker"
)

// maxGoogleRunes is the largest text the web endpoint accepts in one call.
const maxGoogleRunes = 5000

// GoogleConfig holds configuration for the Google Translate web backend.
type GoogleConfig struct {
	BaseURL string // default: "https://translate.googleapis.com"
}

// GoogleTranslator uses the keyless translate_a/single endpoint with the gtx client.
type GoogleTranslator struct {
	cfg        GoogleConfig
	httpClient *http.Client
}

func NewGoogleTranslator(cfg GoogleConfig) *GoogleTranslator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://translate.googleapis.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &GoogleTranslator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GoogleTranslator) Name() string { return "google" }

func (g *GoogleTranslator) Translate(ctx context.Context, req Request) (*Result, error) {
	if req.TargetLang == "" {
		return nil, fmt.Errorf("target language is required")
	}

	pieces := chunker.SplitRaw(req.Text, chunker.Options{
		MaxRunes:   maxGoogleRunes,
		Separators: chunker.SpeechOptions().Separators,
	})

	var (
		out    strings.Builder
		source string
		called bool
	)
	for _, piece := range pieces {
		core := strings.TrimSpace(piece)
		if !hasWordChars(core) {
			out.WriteString(piece)
			continue
		}

		text, detected, err := g.translatePiece(ctx, core, req.TargetLang)
		if err != nil {
			return nil, err
		}
		called = true
		if source == "" {
			source = detected
		}

		// Keep the whitespace the split point had, so scripts without
		// spaces between words are not altered.
		lead := piece[:strings.Index(piece, core)]
		trail := piece[len(lead)+len(core):]
		out.WriteString(lead)
		out.WriteString(text)
		out.WriteString(trail)
	}

	if !called {
		return &Result{Text: req.Text}, nil
	}
	return &Result{Text: strings.TrimSpace(out.String()), SourceLang: source}, nil
}

func hasWordChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

func (g *GoogleTranslator) translatePiece(ctx context.Context, text, targetLang string) (string, string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", targetLang)
	q.Set("dt", "t")
	q.Set("ie", "UTF-8")
	q.Set("oe", "UTF-8")

	form := url.Values{}
	form.Set("q", text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.cfg.BaseURL+"/translate_a/single?"+q.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("translate failed (status %d, lang %q): %s",
			resp.StatusCode, targetLang, strings.TrimSpace(string(body)))
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse reads the positional array the endpoint returns:
// [[["translated","original",...], ...], null, "detected-lang", ...].
func parseGoogleResponse(body []byte) (string, string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", "", fmt.Errorf("parse response: %w", err)
	}
	if len(raw) == 0 {
		return "", "", fmt.Errorf("parse response: empty payload")
	}

	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", "", fmt.Errorf("parse segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			sb.WriteString(s)
		}
	}

	var source string
	if len(raw) > 2 {
		_ = json.Unmarshal(raw[2], &source)
	}

	return sb.String(), source, nil
}
