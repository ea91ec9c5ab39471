package stt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nikhilbhutani/geniechat/internal/config"
)

const (
	// DefaultLanguage is the only language the app transcribes.
	DefaultLanguage = "en"
	// FormatText asks the provider for a bare text body.
	FormatText = "text"
)

// AudioClip is an in-memory audio upload.
type AudioClip struct {
	Data     []byte
	Filename string
	MIMEType string
}

// NewWebMClip tags raw bytes as a browser-recorded webm clip.
func NewWebMClip(data []byte) AudioClip {
	return AudioClip{Data: data, Filename: "audio.webm", MIMEType: "audio/webm"}
}

func (c AudioClip) Validate() error {
	if len(c.Data) == 0 {
		return errors.New("audio clip is empty")
	}
	if c.Filename == "" {
		return errors.New("audio clip has no filename")
	}
	if !strings.HasPrefix(c.MIMEType, "audio/") {
		return fmt.Errorf("unsupported audio mime type %q", c.MIMEType)
	}
	return nil
}

// TranscriptionRequest holds the parameters for audio transcription.
type TranscriptionRequest struct {
	Model          string
	Clip           AudioClip
	Language       string
	ResponseFormat string
}

// TranscriptionResponse holds the transcription result.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// STTProvider is the interface for speech-to-text backends.
type STTProvider interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
	Name() string
}

// NewFromConfig picks the transcription backend named by cfg.Backend.
func NewFromConfig(cfg config.STTConfig) STTProvider {
	if cfg.Backend == "local" {
		return NewLocalSTT(LocalSTTConfig{BaseURL: cfg.LocalBaseURL})
	}
	return NewOpenAISTT(OpenAISTTConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
}
