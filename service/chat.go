package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/venkatramks/legal-ai-frontend/model"
)

// ChatSession maintains the ordered message list for one document and
// implements optimistic send: the user's message is appended before the
// backend confirms it, and is kept even when the round-trip fails. The local
// sequence is authoritative until a full LoadHistory replaces it.
type ChatSession struct {
	client     *Client
	documentID string

	mu       sync.Mutex
	messages []model.ChatMessage
}

func NewChatSession(client *Client, documentID string) *ChatSession {
	return &ChatSession{
		client:     client,
		documentID: documentID,
	}
}

// DocumentID returns the document this session belongs to.
func (s *ChatSession) DocumentID() string {
	return s.documentID
}

// Messages returns a copy of the current message list in append order.
func (s *ChatSession) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// LoadHistory replaces the entire message list with the server's history.
// Safe to call repeatedly; each call is a full replacement, which is also the
// only point where provisional ids are reconciled away.
func (s *ChatSession) LoadHistory(ctx context.Context) error {
	history, err := s.client.GetChatHistory(ctx, s.documentID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.messages = history
	s.mu.Unlock()
	return nil
}

// Send appends the user's message optimistically, then issues the backend
// call. On success the assistant reply is appended; on failure the optimistic
// user message stays in place and the error is returned for display.
func (s *ChatSession) Send(ctx context.Context, text string) (*model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Message: "message must not be empty"}
	}

	userMsg := model.ChatMessage{
		ID:        model.NewProvisionalID(),
		Role:      model.RoleUser,
		Message:   text,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, userMsg)
	s.mu.Unlock()

	reply, err := s.client.SendChatMessage(ctx, s.documentID, text)
	if err != nil {
		return nil, err
	}

	assistantMsg := model.ChatMessage{
		ID:        model.NewProvisionalID(),
		Role:      model.RoleAssistant,
		Message:   reply,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, assistantMsg)
	s.mu.Unlock()

	return &assistantMsg, nil
}

// Delete removes the session server-side and clears the local history only on
// success; a failed delete leaves the local state untouched.
func (s *ChatSession) Delete(ctx context.Context) error {
	if err := s.client.DeleteChatSession(ctx, s.documentID); err != nil {
		return err
	}

	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
	return nil
}
