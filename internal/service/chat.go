package service

import (
	"context"
	"strings"
	"sync"

	"github.com/youngthe/gemini-demo/internal/prompts"
)

// ChatService forwards user messages to the generation client with a fixed
// instruction suffix appended. The last successful reply is remembered so
// the Kakao callback can deliver it as a message.
type ChatService struct {
	gen Generator

	mu        sync.RWMutex
	lastReply string
}

// NewChatService creates a new chat passthrough.
func NewChatService(gen Generator) *ChatService {
	return &ChatService{gen: gen}
}

// Send forwards a message and returns the completion text.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - message: user message to forward.
// Returns:
//   - string: completion text.
//   - error: non-nil if the generation call fails.
func (s *ChatService) Send(ctx context.Context, message string) (string, error) {
	text, err := s.gen.Generate(ctx, message+prompts.ChatSuffix)
	if err != nil {
		return "", err
	}

	if trimmed := strings.TrimSpace(text); trimmed != "" {
		s.mu.Lock()
		s.lastReply = trimmed
		s.mu.Unlock()
	}

	return text, nil
}

// LastReply returns the most recent non-empty chat reply, or "" if no
// chat has succeeded yet.
func (s *ChatService) LastReply() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReply
}
