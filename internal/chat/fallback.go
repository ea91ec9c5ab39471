package chat

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/geniechat/internal/models"
)

// Rule pairs a match on the last user message with a canned reply.
type Rule struct {
	Match    func(content string) bool
	Response string
}

// containsAny matches when the lowercased content contains any of terms.
func containsAny(terms ...string) func(string) bool {
	return func(content string) bool {
		lc := strings.ToLower(content)
		for _, t := range terms {
			if strings.Contains(lc, t) {
				return true
			}
		}
		return false
	}
}

// DefaultRules are checked in order; the first match wins.
var DefaultRules = []Rule{
	{
		Match:    containsAny("hello", "hi", "hey"),
		Response: "Hey there! It's really good to hear from you. How's your day going so far?",
	},
	{
		Match:    containsAny("weather"),
		Response: "I can't check the weather right now, but I hope it's a nice one where you are! Got any plans for the day?",
	},
	{
		Match:    containsAny("help"),
		Response: "Of course, I'm here for you. Tell me a bit more about what's going on and we'll figure it out together.",
	},
	{
		Match:    containsAny("who are you"),
		Response: "I'm Genie, your AI companion. I'm here to chat, listen and help out whenever you need me.",
	},
}

const echoTemplate = "I hear you saying: %q. I'm running in offline mode right now, but I'd love to keep talking. Tell me more?"

// OfflineModel is reported as the model of canned replies.
const OfflineModel = "genie-offline"

const (
	minDelay = 500 * time.Millisecond
	maxDelay = 1500 * time.Millisecond
)

// FallbackResponder returns canned replies without calling a provider. It is
// for offline development only.
type FallbackResponder struct {
	rules []Rule
	delay func() time.Duration
}

func NewFallbackResponder() *FallbackResponder {
	return &FallbackResponder{
		rules: DefaultRules,
		delay: randomDelay,
	}
}

func randomDelay() time.Duration {
	return minDelay + rand.N(maxDelay-minDelay)
}

// Reply waits a random 500-1500ms, then answers the last user message. The
// model argument is ignored.
func (f *FallbackResponder) Reply(ctx context.Context, messages []models.Message, _ string) (*Reply, error) {
	start := time.Now()
	if err := validate(messages); err != nil {
		return nil, err
	}

	timer := time.NewTimer(f.delay())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return &Reply{
		ID:        uuid.NewString(),
		Text:      f.respond(messages[len(messages)-1].Content),
		Model:     OfflineModel,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

func (f *FallbackResponder) respond(content string) string {
	for _, r := range f.rules {
		if r.Match(content) {
			return r.Response
		}
	}
	return fmt.Sprintf(echoTemplate, content)
}
