package pipeline

import (
	"errors"
)

// Kind is a machine-readable classification of a pipeline failure.
type Kind string

const (
	KindFetch         Kind = "FETCH_FAILED"
	KindFilesystem    Kind = "FILESYSTEM_ERROR"
	KindTranscription Kind = "TRANSCRIPTION_FAILED"
	KindTranslation   Kind = "TRANSLATION_FAILED"
	KindSynthesis     Kind = "SYNTHESIS_FAILED"
	KindInternal      Kind = "INTERNAL_ERROR"
)

// Error records which step failed and why.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}
