package stt

import (
	"cmp"
	"context"
	"strings"
)

const (
	defaultLocalURL = "http://localhost:8178"
	// whisper.cpp serves whichever ggml model it was started with and only
	// checks that the field is present.
	defaultLocalModel = "whisper-1"
)

type LocalSTTConfig struct {
	BaseURL string
	Model   string
}

// LocalSTT transcribes through a whisper.cpp server on the developer's
// machine, e.g. `./server -m models/ggml-base.en.bin --port 8178`.
type LocalSTT struct {
	baseURL  string
	model    string
	upstream *OpenAISTT
}

func NewLocalSTT(cfg LocalSTTConfig) *LocalSTT {
	base := strings.TrimRight(cmp.Or(cfg.BaseURL, defaultLocalURL), "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	model := cmp.Or(cfg.Model, defaultLocalModel)
	return &LocalSTT{
		baseURL:  base,
		model:    model,
		upstream: NewOpenAISTT(OpenAISTTConfig{BaseURL: base, Model: model}),
	}
}

func (l *LocalSTT) Name() string { return "local-whisper" }

// BaseURL is the OpenAI-compatible root the clips are posted under.
func (l *LocalSTT) BaseURL() string { return l.baseURL }

// Transcribe replaces any hosted model id on the request with the local one.
func (l *LocalSTT) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	req.Model = l.model
	return l.upstream.Transcribe(ctx, req)
}
