package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikhilbhutani/geniechat/internal/apperr"
	"github.com/nikhilbhutani/geniechat/internal/transcription"
)

// maxAudioBody bounds the JSON body; base64 inflates audio by a third.
const maxAudioBody = 32 << 20

type TranscriptionHandler struct {
	svc *transcription.Service
}

func NewTranscriptionHandler(svc *transcription.Service) *TranscriptionHandler {
	return &TranscriptionHandler{svc: svc}
}

type errorResponse struct {
	Error        string `json:"error"`
	Details      string `json:"details,omitempty"`
	FallbackText string `json:"fallbackText,omitempty"`
}

// Transcribe converts base64 audio to text.
func (h *TranscriptionHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req transcription.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAudioBody)).Decode(&req); err != nil {
		writeTranscriptionError(w, transcription.ProcessingError(err))
		return
	}

	result, err := h.svc.Transcribe(r.Context(), req)
	if err != nil {
		writeTranscriptionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeTranscriptionError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		errors.As(transcription.ProcessingError(err), &appErr)
	}

	if appErr.Kind == apperr.Validation {
		writeJSON(w, appErr.Kind.Status(), errorResponse{Error: appErr.Message})
		return
	}

	slog.Error("transcription failed", "kind", appErr.Kind, "error", appErr.Err)
	writeJSON(w, appErr.Kind.Status(), errorResponse{
		Error:        appErr.Message,
		Details:      appErr.Detail(),
		FallbackText: transcription.FallbackText,
	})
}
