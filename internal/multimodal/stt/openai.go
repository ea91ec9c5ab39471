package stt

import (
	"bytes"
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAISTTConfig holds configuration for an OpenAI-compatible transcription
// backend.
type OpenAISTTConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.groq.com/openai/v1"
	Model   string // default: "whisper-large-v3-turbo"
}

// OpenAISTT transcribes audio through an OpenAI-compatible
// /audio/transcriptions endpoint (Groq, OpenAI, whisper.cpp).
type OpenAISTT struct {
	cfg    OpenAISTTConfig
	client *openai.Client
}

// NewOpenAISTT creates an OpenAISTT with sensible defaults applied.
func NewOpenAISTT(cfg OpenAISTTConfig) *OpenAISTT {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-large-v3-turbo"
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	return &OpenAISTT{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

func (o *OpenAISTT) Name() string { return "openai-whisper" }

// DefaultModel is the model used when a request names none.
func (o *OpenAISTT) DefaultModel() string { return o.cfg.Model }

// Transcribe uploads the clip from memory in a single request.
func (o *OpenAISTT) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	if err := req.Clip.Validate(); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = o.cfg.Model
	}
	format := req.ResponseFormat
	if format == "" {
		format = FormatText
	}

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: req.Clip.Filename,
		Reader:   bytes.NewReader(req.Clip.Data),
		Language: req.Language,
		Format:   openai.AudioResponseFormat(format),
	})
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}

	return &TranscriptionResponse{Text: resp.Text}, nil
}
