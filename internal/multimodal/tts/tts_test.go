package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/voicetranslate/internal/config"
)

func TestGoogleTTSSingleRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate_tts", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Bonjour", q.Get("q"))
		assert.Equal(t, "fr", q.Get("tl"))
		assert.Equal(t, "tw-ob", q.Get("client"))
		assert.Equal(t, "1", q.Get("total"))
		assert.Equal(t, "0", q.Get("idx"))
		assert.Equal(t, "7", q.Get("textlen"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("MP3-bonjour"))
	}))
	defer srv.Close()

	g := NewGoogleTTS(GoogleTTSConfig{BaseURL: srv.URL + "/"})
	res, err := g.Synthesize(context.Background(), SynthesisRequest{Input: "Bonjour", Language: "fr"})
	require.NoError(t, err)

	assert.Equal(t, "MP3-bonjour", string(res.Audio))
	assert.Equal(t, "audio/mpeg", res.ContentType)
}

func TestGoogleTTSConcatenatesPieces(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("[" + r.URL.Query().Get("idx") + "]"))
	}))
	defer srv.Close()

	text := strings.Repeat("a", 90) + ". " + strings.Repeat("b", 90) + ". " + strings.Repeat("c", 10)
	g := NewGoogleTTS(GoogleTTSConfig{BaseURL: srv.URL})
	res, err := g.Synthesize(context.Background(), SynthesisRequest{Input: text, Language: "en"})
	require.NoError(t, err)

	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, "[0][1][2]", string(res.Audio))
}

func TestGoogleTTSRejectsEmptyText(t *testing.T) {
	g := NewGoogleTTS(GoogleTTSConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := g.Synthesize(context.Background(), SynthesisRequest{Input: "   ", Language: "fr"})
	assert.ErrorContains(t, err, "no text to speak")

	_, err = g.Synthesize(context.Background(), SynthesisRequest{Input: "hi"})
	assert.ErrorContains(t, err, "language is required")
}

func TestGoogleTTSUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported language", http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewGoogleTTS(GoogleTTSConfig{BaseURL: srv.URL})
	_, err := g.Synthesize(context.Background(), SynthesisRequest{Input: "hello", Language: "xx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), `"xx"`)
}

func TestOpenAITTSSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			return
		}
		assert.Equal(t, "tts-1", body["model"])
		assert.Equal(t, "Bonjour", body["input"])
		assert.Equal(t, "nova", body["voice"])
		assert.Equal(t, "mp3", body["response_format"])

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("MP3-openai"))
	}))
	defer srv.Close()

	o := NewOpenAITTS(OpenAITTSConfig{APIKey: "sk-test", BaseURL: srv.URL, Voice: "nova"})
	res, err := o.Synthesize(context.Background(), SynthesisRequest{Input: "Bonjour", Language: "fr"})
	require.NoError(t, err)

	assert.Equal(t, "MP3-openai", string(res.Audio))
	assert.Equal(t, "audio/mpeg", res.ContentType)
}

func TestOpenAITTSUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"input too long","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	o := NewOpenAITTS(OpenAITTSConfig{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := o.Synthesize(context.Background(), SynthesisRequest{Input: "x"})
	assert.ErrorContains(t, err, "tts request")
}

func TestNewSelectsBackend(t *testing.T) {
	p, err := New(config.TTSConfig{Backend: "google"})
	require.NoError(t, err)
	assert.Equal(t, "google-tts", p.Name())

	p, err = New(config.TTSConfig{Backend: "openai", OpenAIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai-tts", p.Name())

	_, err = New(config.TTSConfig{Backend: "piper"})
	assert.ErrorContains(t, err, "piper")
}
