package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/geniechat/internal/apperr"
	"github.com/nikhilbhutani/geniechat/internal/llm"
	"github.com/nikhilbhutani/geniechat/internal/models"
)

// HistoryWindow is how many trailing messages are forwarded to the provider.
// Older turns are dropped without summarization.
const HistoryWindow = 5

const msgNoUserMessage = "No valid user message found."

// Reply is the assistant's answer plus what produced it.
type Reply struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Model     string `json:"model"`
	Provider  string `json:"provider,omitempty"`
	LatencyMs int64  `json:"processing_time_ms"`
}

// Responder produces the assistant's reply to a conversation.
type Responder interface {
	Reply(ctx context.Context, messages []models.Message, model string) (*Reply, error)
}

// Completer is the slice of llm.Gateway the forwarder needs.
type Completer interface {
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

// Forwarder sends the recent conversation to a completion provider.
type Forwarder struct {
	completer    Completer
	defaultModel string
	preamble     string
}

func NewForwarder(completer Completer, defaultModel string) *Forwarder {
	if defaultModel == "" {
		defaultModel = models.DefaultChatModel()
	}
	return &Forwarder{
		completer:    completer,
		defaultModel: defaultModel,
		preamble:     SystemPreamble,
	}
}

// Reply validates the conversation and makes one provider call. Provider
// errors are returned as-is. Text is the first choice's content, or empty.
func (f *Forwarder) Reply(ctx context.Context, messages []models.Message, model string) (*Reply, error) {
	start := time.Now()
	if err := validate(messages); err != nil {
		return nil, err
	}

	if model == "" {
		model = f.defaultModel
	}

	req := llm.ChatRequest{
		Model:    model,
		Messages: buildPrompt(f.preamble, messages),
	}
	if d, ok := models.LookupDescriptor(model); ok {
		req.Provider = d.Backend
	}

	resp, err := f.completer.Chat(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &Reply{Model: model, Provider: req.Provider}
	if resp != nil {
		out.ID = resp.ID
		out.Text = resp.Content
		if resp.Provider != "" {
			out.Provider = resp.Provider
		}
		if resp.Model != "" {
			out.Model = resp.Model
		}
	}
	// Ollama and empty responses carry no id.
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	out.LatencyMs = time.Since(start).Milliseconds()
	return out, nil
}

func validate(messages []models.Message) error {
	if len(messages) == 0 || messages[len(messages)-1].Role != models.RoleUser {
		return apperr.New(apperr.Validation, msgNoUserMessage)
	}
	for i, m := range messages {
		if err := m.Validate(); err != nil {
			return apperr.Wrap(apperr.Validation, fmt.Sprintf("invalid message at index %d", i), err)
		}
	}
	return nil
}

// buildPrompt returns the preamble followed by the last HistoryWindow
// messages in their original order.
func buildPrompt(preamble string, messages []models.Message) []llm.Message {
	start := max(len(messages)-HistoryWindow, 0)
	recent := messages[start:]

	out := make([]llm.Message, 0, len(recent)+1)
	out = append(out, llm.Message{Role: string(models.RoleSystem), Content: preamble})
	for _, m := range recent {
		out = append(out, llm.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}
