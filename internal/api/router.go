package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/geniechat/internal/api/handlers"
	"github.com/nikhilbhutani/geniechat/internal/api/middleware"
	"github.com/nikhilbhutani/geniechat/internal/chat"
	"github.com/nikhilbhutani/geniechat/internal/config"
	"github.com/nikhilbhutani/geniechat/internal/llm"
	"github.com/nikhilbhutani/geniechat/internal/multimodal/stt"
	"github.com/nikhilbhutani/geniechat/internal/transcription"
)

type Router struct {
	mux   *chi.Mux
	cfg   *config.Config
	llmGW llm.Gateway
	stt   stt.STTProvider
}

// NewRouter wires the handlers to explicitly constructed provider clients.
func NewRouter(cfg *config.Config, gw llm.Gateway, sttProvider stt.STTProvider) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		cfg:   cfg,
		llmGW: gw,
		stt:   sttProvider,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.CORSOrigins))

	health := handlers.NewHealthHandler(rt.llmGW, rt.stt)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	var responder chat.Responder = chat.NewForwarder(rt.llmGW, rt.cfg.LLM.DefaultModel)
	if rt.cfg.Chat.Mock {
		responder = chat.NewFallbackResponder()
	}
	transcriber := transcription.NewService(rt.stt, rt.cfg.STT.Model)

	r.Route("/api/v1", func(r chi.Router) {
		chatH := handlers.NewChatHandler(responder, rt.llmGW)
		r.Post("/chat", chatH.Chat)
		r.Get("/models", chatH.Models)

		transcribeH := handlers.NewTranscriptionHandler(transcriber)
		r.Post("/transcribe", transcribeH.Transcribe)
	})

	return r
}
