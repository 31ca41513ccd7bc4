package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/voicetranslate/internal/pipeline"
)

// AudioTranslator runs the fetch, transcribe, translate, synthesize chain.
type AudioTranslator interface {
	Translate(ctx context.Context, audioURL, targetLang string) (*pipeline.Result, error)
}

type TranslateHandler struct {
	pipeline AudioTranslator
}

func NewTranslateHandler(p AudioTranslator) *TranslateHandler {
	return &TranslateHandler{pipeline: p}
}

// errorBody is the JSON returned for every failed request.
type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// Translate downloads audio_url, speaks it in lang and streams back the MP3.
// The synthesized file is removed once the body has been written.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Only absent parameters are rejected; empty values fail in the pipeline.
	var missing []string
	if !query.Has("audio_url") {
		missing = append(missing, "audio_url")
	}
	if !query.Has("lang") {
		missing = append(missing, "lang")
	}
	if len(missing) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Detail: "missing required query parameter: " + strings.Join(missing, ", "),
			Code:   "MISSING_FIELD",
		})
		return
	}

	result, err := h.pipeline.Translate(r.Context(), query.Get("audio_url"), query.Get("lang"))
	if err != nil {
		kind := pipeline.KindOf(err)
		slog.Error("audio translation failed",
			"code", kind,
			"error", err,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: err.Error(), Code: string(kind)})
		return
	}
	defer result.Release()

	f, err := result.Open()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Detail: fmt.Sprintf("open output audio: %v", err),
			Code:   string(pipeline.KindFilesystem),
		})
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(result.Size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, f); err != nil {
		slog.Warn("failed to write audio response",
			"file", result.Filename,
			"error", err,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	}
}
