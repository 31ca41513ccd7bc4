// Package pipeline turns a remote recording into speech in another language:
// fetch, transcribe, translate, synthesize. Each call is independent; the only
// state shared between calls is the set of provider clients.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/voicetranslate/internal/multimodal/stt"
	"github.com/nikhilbhutani/voicetranslate/internal/multimodal/tts"
	"github.com/nikhilbhutani/voicetranslate/internal/tempfile"
	"github.com/nikhilbhutani/voicetranslate/internal/translation"
)

// ContentType is the media type of every synthesized result.
const ContentType = "audio/mp3"

const (
	inputPrefix  = "uploaded_audio_"
	outputPrefix = "translated_audio_"
	audioExt     = ".mp3"
)

// Fetcher downloads the source recording.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Options struct {
	TempDir string        // empty means os.TempDir()
	Timeout time.Duration // 0 means no deadline beyond the caller's context
	Logger  *slog.Logger
}

type Pipeline struct {
	fetcher    Fetcher
	stt        stt.STTProvider
	translator translation.Translator
	tts        tts.TTSProvider

	tempDir string
	timeout time.Duration
	log     *slog.Logger
}

func New(fetcher Fetcher, sttProvider stt.STTProvider, translator translation.Translator, ttsProvider tts.TTSProvider, opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{
		fetcher:    fetcher,
		stt:        sttProvider,
		translator: translator,
		tts:        ttsProvider,
		tempDir:    opts.TempDir,
		timeout:    opts.Timeout,
		log:        opts.Logger,
	}
}

// Backends names the provider behind each stage.
func (p *Pipeline) Backends() map[string]string {
	return map[string]string{
		"stt":         p.stt.Name(),
		"translation": p.translator.Name(),
		"tts":         p.tts.Name(),
	}
}

// CheckTempDir verifies that new files can be created in the temp directory.
func (p *Pipeline) CheckTempDir() error {
	f, err := tempfile.Create(p.tempDir, "readyz_", ".tmp", nil)
	if err != nil {
		return err
	}
	return f.Remove()
}

// Result is a synthesized audio file waiting to be sent. The caller must call
// Release once the file has been delivered.
type Result struct {
	Path        string
	ContentType string
	Filename    string
	Size        int64

	file    *tempfile.File
	log     *slog.Logger
	release sync.Once
}

// Open opens the output file for reading.
func (r *Result) Open() (*os.File, error) {
	return os.Open(r.Path)
}

// Release deletes the output file. It is safe to call more than once; only
// the first call has an effect. Failures are logged and otherwise ignored.
func (r *Result) Release() {
	r.release.Do(func() {
		if err := r.file.Remove(); err != nil {
			r.log.Warn("failed to remove output file", "file", r.Filename, "error", err)
			return
		}
		r.log.Debug("output file removed", "file", r.Filename)
	})
}

// Translate runs the full chain for one request. On error no file is left
// behind and no partial result is returned.
func (p *Pipeline) Translate(ctx context.Context, audioURL, targetLang string) (*Result, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	log := p.log.With("lang", targetLang)
	if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
		log = log.With("request_id", reqID)
	}
	start := time.Now()

	stepStart := time.Now()
	audio, err := p.fetcher.Fetch(ctx, audioURL)
	if err != nil {
		return nil, newError(KindFetch, "fetch audio", err)
	}
	log.Debug("audio fetched", "bytes", len(audio), "duration", time.Since(stepStart))

	input, err := tempfile.Create(p.tempDir, inputPrefix, audioExt, audio)
	if err != nil {
		return nil, newError(KindFilesystem, "store input audio", err)
	}
	defer p.discard(log, input)

	stepStart = time.Now()
	transcript, err := p.stt.Transcribe(ctx, stt.TranscriptionRequest{FilePath: input.Path()})
	if err != nil {
		return nil, newError(KindTranscription, "transcribe audio", err)
	}
	p.discard(log, input)
	log.Debug("audio transcribed", "provider", p.stt.Name(), "chars", len(transcript.Text), "duration", time.Since(stepStart))

	stepStart = time.Now()
	translated, err := p.translator.Translate(ctx, translation.Request{
		Text:       transcript.Text,
		TargetLang: targetLang,
	})
	if err != nil {
		return nil, newError(KindTranslation, "translate text", err)
	}
	log.Debug("text translated", "provider", p.translator.Name(), "source_lang", translated.SourceLang, "duration", time.Since(stepStart))

	stepStart = time.Now()
	speech, err := p.tts.Synthesize(ctx, tts.SynthesisRequest{
		Input:    translated.Text,
		Language: targetLang,
	})
	if err != nil {
		return nil, newError(KindSynthesis, "synthesize speech", err)
	}
	log.Debug("speech synthesized", "provider", p.tts.Name(), "bytes", len(speech.Audio), "duration", time.Since(stepStart))

	output, err := tempfile.Create(p.tempDir, outputPrefix, audioExt, speech.Audio)
	if err != nil {
		return nil, newError(KindFilesystem, "store output audio", err)
	}

	size, err := output.Size()
	if err != nil {
		p.discard(log, output)
		return nil, newError(KindFilesystem, "stat output audio", err)
	}

	log.Info("translation pipeline finished", "file", output.Name(), "bytes", size, "duration", time.Since(start))

	return &Result{
		Path:        output.Path(),
		ContentType: ContentType,
		Filename:    output.Name(),
		Size:        size,
		file:        output,
		log:         log,
	}, nil
}

func (p *Pipeline) discard(log *slog.Logger, f *tempfile.File) {
	if err := f.Remove(); err != nil {
		log.Warn("failed to remove temp file", "file", f.Name(), "error", err)
	}
}
