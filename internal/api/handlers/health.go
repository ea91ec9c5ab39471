package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nikhilbhutani/geniechat/internal/llm"
	"github.com/nikhilbhutani/geniechat/internal/multimodal/stt"
)

type HealthHandler struct {
	gateway llm.Gateway
	stt     stt.STTProvider
}

func NewHealthHandler(gw llm.Gateway, sttProvider stt.STTProvider) *HealthHandler {
	return &HealthHandler{gateway: gw, stt: sttProvider}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports which backends are wired. It does not call them.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]interface{}{}

	if h.gateway != nil {
		checks["chat_providers"] = h.gateway.Providers()
	}
	if h.stt != nil {
		checks["transcription"] = h.stt.Name()
	}

	status := http.StatusOK
	if h.gateway == nil || len(h.gateway.Providers()) == 0 || h.stt == nil {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]interface{}{"status": statusStr(status), "checks": checks})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
