package stt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/voicetranslate/internal/config"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "uploaded_audio.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3fake-audio"), 0o600))
	return path
}

func TestOpenAISTTTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "whisper-large-v3", r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "ID3fake-audio", string(data))
		assert.Equal(t, "uploaded_audio.mp3", hdr.Filename)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"text":     "Hello",
			"language": "english",
			"duration": 1.25,
		})
	}))
	defer srv.Close()

	p := NewOpenAISTT(OpenAISTTConfig{APIKey: "gsk_test", BaseURL: srv.URL})
	resp, err := p.Transcribe(context.Background(), TranscriptionRequest{FilePath: writeAudio(t)})
	require.NoError(t, err)

	assert.Equal(t, "Hello", resp.Text)
	assert.Equal(t, "english", resp.Language)
	assert.InDelta(t, 1.25, resp.Duration, 0.001)
}

func TestOpenAISTTUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	p := NewOpenAISTT(OpenAISTTConfig{APIKey: "wrong", BaseURL: srv.URL})
	_, err := p.Transcribe(context.Background(), TranscriptionRequest{FilePath: writeAudio(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestOpenAISTTMissingFile(t *testing.T) {
	p := NewOpenAISTT(OpenAISTTConfig{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	_, err := p.Transcribe(context.Background(), TranscriptionRequest{
		FilePath: filepath.Join(t.TempDir(), "gone.mp3"),
	})
	assert.Error(t, err)
}

func TestNewSelectsBackend(t *testing.T) {
	p, err := New(config.STTConfig{Backend: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "whisper", p.Name())

	p, err = New(config.STTConfig{Backend: "local"})
	require.NoError(t, err)
	assert.Equal(t, "local-whisper", p.Name())

	_, err = New(config.STTConfig{Backend: "telepathy"})
	assert.ErrorContains(t, err, "telepathy")
}
