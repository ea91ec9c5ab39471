package transcription

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nikhilbhutani/geniechat/internal/apperr"
	"github.com/nikhilbhutani/geniechat/internal/multimodal/stt"
)

// FallbackText tells the user to type when speech could not be used.
const FallbackText = "Sorry, I couldn't understand the audio. Please try typing your message instead."

// DefaultModel is the fast transcription model used when a request names none.
const DefaultModel = "whisper-large-v3-turbo"

const (
	msgNoAudio        = "No audio data provided"
	msgTranscribe     = "Failed to transcribe audio"
	msgProcessRequest = "Failed to process audio request"
)

// Request is the JSON body accepted by the transcription endpoint.
type Request struct {
	Audio string `json:"audio"`
	Model string `json:"model,omitempty"`
}

type Result struct {
	Text string `json:"text"`
}

type Service struct {
	provider     stt.STTProvider
	defaultModel string
}

func NewService(provider stt.STTProvider, defaultModel string) *Service {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	return &Service{provider: provider, defaultModel: defaultModel}
}

// Transcribe makes at most one provider call. Errors are *apperr.Error:
// Validation for missing audio, Request for undecodable audio and Provider
// for a failed or empty transcription.
func (s *Service) Transcribe(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Audio) == "" {
		return nil, apperr.New(apperr.Validation, msgNoAudio)
	}

	data, err := DecodeAudio(req.Audio)
	if err != nil {
		return nil, apperr.Wrap(apperr.Request, msgProcessRequest, err)
	}

	clip := stt.NewWebMClip(data)
	if err := clip.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.Request, msgProcessRequest, err)
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	slog.Debug("transcribing audio", "model", model, "bytes", len(data), "provider", s.provider.Name())

	resp, err := s.provider.Transcribe(ctx, stt.TranscriptionRequest{
		Model:          model,
		Clip:           clip,
		Language:       stt.DefaultLanguage,
		ResponseFormat: stt.FormatText,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Provider, msgTranscribe, err)
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, apperr.Wrap(apperr.Provider, msgTranscribe, errors.New("provider returned no text"))
	}

	return &Result{Text: resp.Text}, nil
}

// ProcessingError reports a failure outside the provider call, such as an
// unreadable request body.
func ProcessingError(err error) error {
	return apperr.Wrap(apperr.Request, msgProcessRequest, err)
}

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// DecodeAudio decodes base64 audio, accepting a data URL prefix and any of
// the standard or URL-safe alphabets.
func DecodeAudio(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, errors.New("malformed data url")
		}
		s = s[i+1:]
	}

	var lastErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("decode base64 audio: %w", lastErr)
}
