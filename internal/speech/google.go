package speech

import (
	"context"
	"fmt"
	"log/slog"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewGoogleAdapter probes the Google Cloud speech APIs once and returns an
// adapter with whichever capabilities resolved. A client that cannot be
// constructed (no credentials, no network) leaves that capability
// unavailable; it is never re-probed per call.
func NewGoogleAdapter(ctx context.Context, credentialsFile string, logger *slog.Logger) *Adapter {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var synthesizer Synthesizer
	if ttsClient, err := texttospeech.NewClient(ctx, opts...); err != nil {
		logger.Warn("Speech synthesis unavailable", "error", err)
	} else {
		synthesizer = &googleSynthesizer{client: ttsClient}
	}

	var recognizer Recognizer
	if sttClient, err := speech.NewClient(ctx, opts...); err != nil {
		logger.Warn("Speech recognition unavailable", "error", err)
	} else {
		recognizer = &googleRecognizer{client: sttClient}
	}

	return NewAdapter(synthesizer, recognizer, logger)
}

type googleSynthesizer struct {
	client *texttospeech.Client
}

func (g *googleSynthesizer) Synthesize(ctx context.Context, text, languageTag string) ([]byte, error) {
	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageTag,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	return resp.AudioContent, nil
}

type googleRecognizer struct {
	client *speech.Client
}

func (g *googleRecognizer) Recognize(ctx context.Context, audio []byte, languageTag string) (string, error) {
	resp, err := g.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_WEBM_OPUS,
			LanguageCode:    languageTag,
			MaxAlternatives: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		if s, ok := status.FromError(err); ok && s.Code() == codes.InvalidArgument {
			return "", &RecognitionError{Reason: "audio not recognizable", Err: err}
		}
		return "", &RecognitionError{Reason: "recognition request failed", Err: err}
	}

	// Best transcript only: first alternative of the first result.
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			return result.Alternatives[0].Transcript, nil
		}
	}
	return "", &RecognitionError{Reason: "no speech detected"}
}
