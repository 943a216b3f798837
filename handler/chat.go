package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/venkatramks/legal-ai-frontend/config"
	"github.com/venkatramks/legal-ai-frontend/model"
	"github.com/venkatramks/legal-ai-frontend/store"
)

// contextLimit caps how much extracted text is sent as LLM context.
const contextLimit = 8000

type ChatHandler struct {
	store  *store.Store
	cfg    config.OpenAIConfig
	client *openai.Client
}

// NewChatHandler builds the chat handler. With an API key configured replies
// come from an OpenAI-compatible endpoint; otherwise they are canned.
func NewChatHandler(st *store.Store, cfg config.OpenAIConfig) *ChatHandler {
	h := &ChatHandler{store: st, cfg: cfg}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		h.client = openai.NewClientWithConfig(clientCfg)
	}
	return h
}

// History returns a document's full chat history
func (h *ChatHandler) History(c *gin.Context) {
	documentID := c.Param("documentId")
	if h.store.GetDocument(documentID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": h.store.GetChats(documentID)})
}

type sendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Send stores the user message, produces the assistant reply and returns it.
func (h *ChatHandler) Send(c *gin.Context) {
	documentID := c.Param("documentId")
	doc := h.store.GetDocument(documentID)
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.store.AppendChat(documentID, model.ChatMessage{
		ID:        uuid.New().String(),
		Role:      model.RoleUser,
		Message:   req.Message,
		CreatedAt: time.Now(),
	})

	reply, err := h.reply(c, doc, req.Message)
	if err != nil {
		slog.Error("chat completion failed", "document_id", documentID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate reply"})
		return
	}

	h.store.AppendChat(documentID, model.ChatMessage{
		ID:        uuid.New().String(),
		Role:      model.RoleAssistant,
		Message:   reply,
		CreatedAt: time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{"message": reply})
}

// Delete clears a document's chat history
func (h *ChatHandler) Delete(c *gin.Context) {
	documentID := c.Param("documentId")
	h.store.DeleteChats(documentID)
	c.JSON(http.StatusOK, gin.H{"message": "Chat history deleted"})
}

func (h *ChatHandler) reply(c *gin.Context, doc *model.Document, message string) (string, error) {
	text := h.store.GetText(doc.ID)
	if h.client == nil {
		return cannedReply(doc, text, message), nil
	}

	if len(text) > contextLimit {
		text = text[:contextLimit]
	}

	resp, err := h.client.CreateChatCompletion(c.Request.Context(), openai.ChatCompletionRequest{
		Model: h.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(
					"You are a legal assistant answering questions about the document %q. Document text:\n\n%s",
					doc.FileName, text),
			},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// cannedReply answers without an LLM, quoting a document line that shares a
// word with the question when one exists.
func cannedReply(doc *model.Document, text, message string) string {
	words := strings.Fields(strings.ToLower(message))
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, w := range words {
			if len(w) >= 5 && strings.Contains(lower, w) {
				return fmt.Sprintf("From %q: %s", doc.FileName, strings.TrimSpace(line))
			}
		}
	}
	return fmt.Sprintf(
		"I could not find anything in %q matching your question. Configure an OpenAI API key for full answers.",
		doc.FileName)
}
