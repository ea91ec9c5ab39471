package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikhilbhutani/geniechat/internal/apperr"
	"github.com/nikhilbhutani/geniechat/internal/chat"
	"github.com/nikhilbhutani/geniechat/internal/llm"
	"github.com/nikhilbhutani/geniechat/internal/models"
)

type ChatHandler struct {
	responder chat.Responder
	gateway   llm.Gateway
}

func NewChatHandler(responder chat.Responder, gw llm.Gateway) *ChatHandler {
	return &ChatHandler{responder: responder, gateway: gw}
}

type chatRequest struct {
	Messages []models.Message `json:"messages"`
	Model    string           `json:"model,omitempty"`
}

// Chat answers with the reply text, the model that actually served it, a
// response id and the processing time. Provider failures are reported as 502
// with the provider's message; no canned reply is substituted.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	reply, err := h.responder.Reply(r.Context(), req.Messages, req.Model)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.Validation {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": appErr.Message})
			return
		}
		slog.Error("chat reply failed", "model", req.Model, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// Models lists the selectable descriptors for the model picker, plus every
// model the configured providers can serve.
func (h *ChatHandler) Models(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"models":  models.Catalog(),
		"default": models.DefaultChatModel(),
	}
	if h.gateway != nil {
		resp["available"] = h.gateway.ListModels()
	}
	writeJSON(w, http.StatusOK, resp)
}
