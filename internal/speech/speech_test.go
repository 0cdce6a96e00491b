package speech

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestMatchChoice(t *testing.T) {
	options := []string{"Cat", "Dog", "Bird"}

	tests := []struct {
		name       string
		transcript string
		want       string
		wantErr    bool
	}{
		{"exact", "Cat", "Cat", false},
		{"case insensitive", "cat", "Cat", false},
		{"whitespace trimmed", "  dog ", "Dog", false},
		{"no match", "elephant", "", true},
		{"empty transcript", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchChoice(tt.transcript, options)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoMatch)
				return
			}
			require.NoError(t, err)
			// The match returns the option as presented, not the transcript.
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchTokens(t *testing.T) {
	options := []string{"I", "am", "happy"}

	t.Run("all tokens in transcript order", func(t *testing.T) {
		got := MatchTokens("i AM happy", options, nil)
		assert.Equal(t, []string{"I", "am", "happy"}, got)
	})

	t.Run("unmatched tokens dropped silently", func(t *testing.T) {
		got := MatchTokens("well i am very happy today", options, nil)
		assert.Equal(t, []string{"I", "am", "happy"}, got)
	})

	t.Run("used options are not matched again", func(t *testing.T) {
		got := MatchTokens("i am happy", options, []string{"I"})
		assert.Equal(t, []string{"am", "happy"}, got)
	})

	t.Run("duplicate token matches once", func(t *testing.T) {
		got := MatchTokens("am am", options, nil)
		assert.Equal(t, []string{"am"}, got)
	})

	t.Run("nothing matches", func(t *testing.T) {
		assert.Nil(t, MatchTokens("completely different", options, nil))
	})
}

type stubRecognizer struct {
	transcript string
	err        error
}

func (s *stubRecognizer) Recognize(context.Context, []byte, string) (string, error) {
	return s.transcript, s.err
}

type stubSynthesizer struct {
	audio []byte
	err   error
}

func (s *stubSynthesizer) Synthesize(context.Context, string, string) ([]byte, error) {
	return s.audio, s.err
}

func TestAdapterCapabilityGating(t *testing.T) {
	// Both capabilities unavailable: synthesis drops, recognition reports
	// the unsupported capability.
	a := NewAdapter(nil, nil, testLogger())

	assert.False(t, a.CanSynthesize())
	assert.False(t, a.CanRecognize())
	assert.Nil(t, a.Synthesize(context.Background(), "hello", "en-US"))

	_, err := a.Recognize(context.Background(), []byte("audio"), "en-US")
	assert.ErrorIs(t, err, ErrUnsupportedCapability)
}

func TestAdapterRecognize(t *testing.T) {
	a := NewAdapter(nil, &stubRecognizer{transcript: "hello world"}, testLogger())

	transcript, err := a.Recognize(context.Background(), []byte("audio"), "en-US")
	require.NoError(t, err)
	assert.Equal(t, "hello world", transcript)

	// Empty capture is a recoverable recognition error, not a capability one.
	_, err = a.Recognize(context.Background(), nil, "en-US")
	var rerr *RecognitionError
	assert.ErrorAs(t, err, &rerr)
}

func TestAdapterRecognizeWrapsServiceError(t *testing.T) {
	a := NewAdapter(nil, &stubRecognizer{err: errors.New("backend down")}, testLogger())

	_, err := a.Recognize(context.Background(), []byte("audio"), "en-US")
	var rerr *RecognitionError
	require.ErrorAs(t, err, &rerr)
	assert.ErrorContains(t, err, "backend down")
}

func TestAdapterSynthesizeDropsFailures(t *testing.T) {
	a := NewAdapter(&stubSynthesizer{err: errors.New("quota exceeded")}, nil, testLogger())
	assert.Nil(t, a.Synthesize(context.Background(), "hello", "en-US"))

	a = NewAdapter(&stubSynthesizer{audio: []byte("mp3")}, nil, testLogger())
	assert.Equal(t, []byte("mp3"), a.Synthesize(context.Background(), "hello", "en-US"))
}
