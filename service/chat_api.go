package service

import (
	"context"
	"net/http"

	"github.com/venkatramks/legal-ai-frontend/model"
)

// GetChatHistory fetches the full message history for a document.
func (c *Client) GetChatHistory(ctx context.Context, documentID string) ([]model.ChatMessage, error) {
	var out struct {
		Chats []model.ChatMessage `json:"chats"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/chat/"+documentID+"/history", nil, &out); err != nil {
		return nil, err
	}
	return out.Chats, nil
}

// SendChatMessage sends a user message and returns the assistant's reply text.
func (c *Client) SendChatMessage(ctx context.Context, documentID, message string) (string, error) {
	body := map[string]string{"message": message}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat/"+documentID, body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// DeleteChatSession removes a document's chat history server-side.
func (c *Client) DeleteChatSession(ctx context.Context, documentID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/chats/"+documentID, nil, nil)
}
