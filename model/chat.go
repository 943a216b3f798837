package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a single entry in a document's chat history.
type ChatMessage struct {
	ID        string         `json:"id"`
	Role      string         `json:"role"` // user, assistant, system
	Message   string         `json:"message"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// provisionalPrefix tags message ids that were assigned locally before the
// backend confirmed the message. Provisional ids live in their own namespace
// and are only ever replaced by a full history reload, never matched against
// server-assigned ids.
const provisionalPrefix = "local-"

// NewProvisionalID returns a client-generated message id.
func NewProvisionalID() string {
	return provisionalPrefix + uuid.New().String()
}

// IsProvisional reports whether id was generated locally.
func IsProvisional(id string) bool {
	return strings.HasPrefix(id, provisionalPrefix)
}
