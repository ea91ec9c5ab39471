package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/geniechat/internal/apperr"
	"github.com/nikhilbhutani/geniechat/internal/llm"
	"github.com/nikhilbhutani/geniechat/internal/models"
)

type capturingCompleter struct {
	resp  *llm.ChatResponse
	err   error
	calls int
	got   llm.ChatRequest
}

func (c *capturingCompleter) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	c.calls++
	c.got = req
	return c.resp, c.err
}

// conversation builds n alternating turns that end on a user turn.
func conversation(n int) []models.Message {
	msgs := make([]models.Message, n)
	for i := range msgs {
		role := models.RoleUser
		if (n-1-i)%2 == 1 {
			role = models.RoleAssistant
		}
		msgs[i] = models.Message{Role: role, Content: fmt.Sprintf("turn %d", i)}
	}
	return msgs
}

func TestForwarder_SendsPreambleAndLastFive(t *testing.T) {
	c := &capturingCompleter{resp: &llm.ChatResponse{Content: "sure!"}}
	f := NewForwarder(c, "")

	msgs := conversation(7)
	out, err := f.Reply(context.Background(), msgs, "llama3-70b-8192")
	require.NoError(t, err)
	require.Equal(t, "sure!", out.Text)

	require.Equal(t, 1, c.calls)
	require.Equal(t, "llama3-70b-8192", c.got.Model)
	require.Equal(t, "groq", c.got.Provider)
	require.Len(t, c.got.Messages, 6)
	require.Equal(t, llm.Message{Role: "system", Content: SystemPreamble}, c.got.Messages[0])
	for i, m := range c.got.Messages[1:] {
		src := msgs[2+i]
		require.Equal(t, string(src.Role), m.Role)
		require.Equal(t, src.Content, m.Content)
	}
}

func TestForwarder_WindowBoundaries(t *testing.T) {
	for n := 1; n <= 12; n++ {
		c := &capturingCompleter{resp: &llm.ChatResponse{}}
		_, err := NewForwarder(c, "").Reply(context.Background(), conversation(n), "")
		require.NoError(t, err)
		require.Len(t, c.got.Messages, min(n, HistoryWindow)+1, "n=%d", n)
		require.Equal(t, fmt.Sprintf("turn %d", n-1), c.got.Messages[len(c.got.Messages)-1].Content)
	}
}

func TestForwarder_DefaultModel(t *testing.T) {
	c := &capturingCompleter{resp: &llm.ChatResponse{}}
	_, err := NewForwarder(c, "").Reply(context.Background(), conversation(1), "")
	require.NoError(t, err)
	require.Equal(t, models.DefaultChatModel(), c.got.Model)

	_, err = NewForwarder(c, "llama3.2:1b").Reply(context.Background(), conversation(1), "")
	require.NoError(t, err)
	require.Equal(t, "llama3.2:1b", c.got.Model)
	require.Equal(t, "ollama", c.got.Provider)
}

func TestForwarder_UnknownModelLeavesRoutingToGateway(t *testing.T) {
	c := &capturingCompleter{resp: &llm.ChatResponse{}}
	_, err := NewForwarder(c, "").Reply(context.Background(), conversation(1), "claude-3-haiku-20240307")
	require.NoError(t, err)
	require.Empty(t, c.got.Provider)
}

func TestForwarder_RejectsWithoutCallingProvider(t *testing.T) {
	cases := map[string][]models.Message{
		"empty":          nil,
		"assistant last": {{Role: models.RoleUser, Content: "hi"}, {Role: models.RoleAssistant, Content: "hello"}},
		"system last":    {{Role: models.RoleSystem, Content: "x"}},
		"bad role":       {{Role: "tool", Content: "x"}, {Role: models.RoleUser, Content: "hi"}},
	}
	for name, msgs := range cases {
		c := &capturingCompleter{resp: &llm.ChatResponse{}}
		_, err := NewForwarder(c, "").Reply(context.Background(), msgs, "")
		require.True(t, apperr.Is(err, apperr.Validation), name)
		require.Zero(t, c.calls, name)
	}
}

func TestForwarder_AssistantLastMessage(t *testing.T) {
	msgs := []models.Message{{Role: models.RoleUser, Content: "hi"}, {Role: models.RoleAssistant, Content: "hello"}}
	_, err := NewForwarder(&capturingCompleter{}, "").Reply(context.Background(), msgs, "")

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "No valid user message found.", appErr.Message)
}

func TestForwarder_PropagatesProviderError(t *testing.T) {
	upstream := errors.New("groq chat: 429 too many requests")
	c := &capturingCompleter{err: upstream}

	_, err := NewForwarder(c, "").Reply(context.Background(), conversation(3), "")
	require.Same(t, upstream, err)
	_, tagged := apperr.KindOf(err)
	require.False(t, tagged)
}

func TestForwarder_ReplyMetadata(t *testing.T) {
	c := &capturingCompleter{resp: &llm.ChatResponse{
		ID:       "chatcmpl-42",
		Provider: "groq",
		Model:    "llama3-70b-8192",
		Content:  "hi!",
	}}

	// no model requested: the default is used and reported
	out, err := NewForwarder(c, "").Reply(context.Background(), conversation(2), "")
	require.NoError(t, err)
	require.Equal(t, &Reply{
		ID:        "chatcmpl-42",
		Text:      "hi!",
		Model:     "llama3-70b-8192",
		Provider:  "groq",
		LatencyMs: out.LatencyMs,
	}, out)
	require.GreaterOrEqual(t, out.LatencyMs, int64(0))
}

func TestForwarder_GeneratesIDWhenProviderHasNone(t *testing.T) {
	c := &capturingCompleter{resp: &llm.ChatResponse{Provider: "ollama", Content: "local"}}

	first, err := NewForwarder(c, "").Reply(context.Background(), conversation(1), "llama3.2:1b")
	require.NoError(t, err)
	second, err := NewForwarder(c, "").Reply(context.Background(), conversation(1), "llama3.2:1b")
	require.NoError(t, err)

	require.Equal(t, "llama3.2:1b", first.Model)
	require.Equal(t, "ollama", first.Provider)
	require.Len(t, first.ID, 36)
	require.NotEqual(t, first.ID, second.ID)
}

func TestForwarder_NoContent(t *testing.T) {
	c := &capturingCompleter{}
	out, err := NewForwarder(c, "").Reply(context.Background(), conversation(1), "")
	require.NoError(t, err)
	require.Equal(t, "", out.Text)
	require.Equal(t, models.DefaultChatModel(), out.Model)
	require.NotEmpty(t, out.ID)
}

func TestFallbackResponder_Rules(t *testing.T) {
	f := NewFallbackResponder()
	cases := []struct {
		in   string
		want string
	}{
		{"Hello Genie", DefaultRules[0].Response},
		{"HEY", DefaultRules[0].Response},
		{"What's the weather like?", DefaultRules[1].Response},
		{"can you help me", DefaultRules[2].Response},
		{"Who are you?", DefaultRules[3].Response},
		{"Tell me a story", fmt.Sprintf(echoTemplate, "Tell me a story")},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, f.respond(tc.in), tc.in)
	}
}

func TestFallbackResponder_PriorityOrder(t *testing.T) {
	// greeting outranks help
	require.Equal(t, DefaultRules[0].Response, NewFallbackResponder().respond("hey, I need help"))
}

func TestFallbackResponder_Reply(t *testing.T) {
	f := NewFallbackResponder()
	f.delay = func() time.Duration { return time.Millisecond }

	out, err := f.Reply(context.Background(), []models.Message{{Role: models.RoleUser, Content: "weather?"}}, "")
	require.NoError(t, err)
	require.Equal(t, DefaultRules[1].Response, out.Text)
	require.Equal(t, OfflineModel, out.Model)
	require.NotEmpty(t, out.ID)

	_, err = f.Reply(context.Background(), []models.Message{{Role: models.RoleAssistant, Content: "x"}}, "")
	require.True(t, apperr.Is(err, apperr.Validation))
}

func TestFallbackResponder_Cancelled(t *testing.T) {
	f := NewFallbackResponder()
	f.delay = func() time.Duration { return time.Hour }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Reply(ctx, conversation(1), "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestRandomDelayRange(t *testing.T) {
	for range 200 {
		d := randomDelay()
		require.GreaterOrEqual(t, d, minDelay)
		require.Less(t, d, maxDelay)
	}
}
