// Package speech wraps platform speech synthesis and recognition behind a
// capability-gated adapter. Capabilities are probed once at construction;
// when a capability is missing the feature degrades to manual input
// instead of failing the session.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrUnsupportedCapability means the platform lacks the capability
	// entirely. Surfaced as a non-fatal notice.
	ErrUnsupportedCapability = errors.New("speech capability not supported")

	// ErrNoMatch means a transcript was produced but matched nothing in
	// the question's option set. Recoverable; session state is unchanged.
	ErrNoMatch = errors.New("transcript matched no option")
)

// RecognitionError wraps a mid-listen failure (no audio, permission
// denied, service error). Non-fatal; the caller may retry.
type RecognitionError struct {
	Reason string
	Err    error
}

func (e *RecognitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recognition failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("recognition failed: %s", e.Reason)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// Synthesizer turns text into audio in the given language.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageTag string) ([]byte, error)
}

// Recognizer transcribes captured audio in the given language. It
// resolves once with the best transcript. Callers must serialize calls
// for the same input field; overlapping calls are undefined here.
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, languageTag string) (string, error)
}

// Adapter exposes the two capabilities independently. Either may be
// unavailable; availability is fixed at construction and never re-checked
// per call.
type Adapter struct {
	synthesizer Synthesizer
	recognizer  Recognizer
	logger      *slog.Logger
}

func NewAdapter(synthesizer Synthesizer, recognizer Recognizer, logger *slog.Logger) *Adapter {
	return &Adapter{
		synthesizer: synthesizer,
		recognizer:  recognizer,
		logger:      logger,
	}
}

// CanSynthesize reports whether synthesis resolved as available.
func (a *Adapter) CanSynthesize() bool { return a.synthesizer != nil }

// CanRecognize reports whether recognition resolved as available.
func (a *Adapter) CanRecognize() bool { return a.recognizer != nil }

// Synthesize vocalizes text. Fire-and-forget: when the platform cannot
// synthesize, or the call fails, the request is dropped with a log line
// and nil audio. The session never has to handle a synthesis error.
func (a *Adapter) Synthesize(ctx context.Context, text, languageTag string) []byte {
	if a.synthesizer == nil {
		a.logger.Debug("Synthesis unavailable, dropping request")
		return nil
	}

	audio, err := a.synthesizer.Synthesize(ctx, text, languageTag)
	if err != nil {
		a.logger.Warn("Synthesis failed, dropping request", "error", err)
		return nil
	}
	return audio
}

// Recognize transcribes audio once. Returns ErrUnsupportedCapability when
// the platform lacks recognition, or a RecognitionError for mid-listen
// failures.
func (a *Adapter) Recognize(ctx context.Context, audio []byte, languageTag string) (string, error) {
	if a.recognizer == nil {
		return "", ErrUnsupportedCapability
	}
	if len(audio) == 0 {
		return "", &RecognitionError{Reason: "no audio captured"}
	}

	transcript, err := a.recognizer.Recognize(ctx, audio, languageTag)
	if err != nil {
		var rerr *RecognitionError
		if errors.As(err, &rerr) {
			return "", err
		}
		return "", &RecognitionError{Reason: "recognition service error", Err: err}
	}
	return transcript, nil
}
