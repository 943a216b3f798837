package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/venkatramks/legal-ai-frontend/model"
	"github.com/venkatramks/legal-ai-frontend/pkg/logger"
)

// Controller is the single owner of "which document is active". It correlates
// the selected document with its chat session and clause analysis, owns the
// dismissible error banner, and guarantees that work belonging to a previous
// selection can never touch the current one: every switch cancels the old
// selection's context and bumps a generation counter that async completions
// are checked against.
type Controller struct {
	client       *Client
	orchestrator *Orchestrator

	mu         sync.Mutex
	generation int
	selected   *model.Document
	chat       *ChatSession
	analysis   *ClauseAnalysis
	cancelSel  context.CancelFunc
	selCtx     context.Context
	lastError  string
}

func NewController(client *Client, orchestrator *Orchestrator) *Controller {
	c := &Controller{
		client:       client,
		orchestrator: orchestrator,
	}
	c.selCtx, c.cancelSel = context.WithCancel(context.Background())
	return c
}

// Select makes doc the active document. The previous selection's in-flight
// work (pollers, enrichment fetches, chat loads) is cancelled in the same
// state update, the chat session is reset to the new document, and the clause
// analysis starts over with its persisted state unknown. Passing nil returns
// to the upload screen.
func (c *Controller) Select(doc *model.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelSel()
	c.generation++
	c.selCtx, c.cancelSel = context.WithCancel(context.Background())
	c.orchestrator.CancelAll()

	c.selected = doc
	if doc == nil {
		c.chat = nil
		c.analysis = nil
		return
	}
	c.chat = NewChatSession(c.client, doc.ID)
	c.analysis = NewClauseAnalysis(c.client, doc.ID)
}

// Selected returns the active document, or nil for the upload screen.
func (c *Controller) Selected() *model.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Chat returns the active document's chat session, or nil.
func (c *Controller) Chat() *ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chat
}

// Analysis returns the active document's clause analysis, or nil.
func (c *Controller) Analysis() *ClauseAnalysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analysis
}

// SelectionContext returns a context that is cancelled as soon as the current
// selection changes. All document-scoped work must be launched under it.
func (c *Controller) SelectionContext() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selCtx
}

func (c *Controller) snapshot() (int, context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, c.selCtx
}

// UploadAndSelect uploads a file, drives it through processing and selects
// the resulting document. Failures surface on the error banner with a
// user-facing message; nothing is retried automatically.
func (c *Controller) UploadAndSelect(fileName string, r io.Reader) (*model.Document, error) {
	gen, ctx := c.snapshot()

	up, err := c.client.UploadDocument(ctx, fileName, r)
	if err != nil {
		c.reportError(gen, err)
		return nil, err
	}

	doc, err := c.orchestrator.ProcessUpload(ctx, up)
	if err != nil {
		c.reportError(gen, err)
		return nil, err
	}

	logger.Info(ctx, "document processed and selected", "document_id", doc.ID, "file_name", doc.FileName)
	c.Select(doc)
	return doc, nil
}

// SendMessage sends a chat message for the active document. The optimistic
// user message is handled by the session; errors only set the banner.
func (c *Controller) SendMessage(text string) (*model.ChatMessage, error) {
	gen, ctx := c.snapshot()
	chat := c.Chat()
	if chat == nil {
		err := &ValidationError{Message: "no document selected"}
		c.reportError(gen, err)
		return nil, err
	}

	reply, err := chat.Send(ctx, text)
	if err != nil {
		c.reportError(gen, err)
		return nil, err
	}
	return reply, nil
}

// LoadHistory refreshes the active document's chat history.
func (c *Controller) LoadHistory() error {
	gen, ctx := c.snapshot()
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	if err := chat.LoadHistory(ctx); err != nil {
		c.reportError(gen, err)
		return err
	}
	return nil
}

// DeleteChat removes the active document's chat session and, on success,
// clears the selection back to the upload screen. On failure the state is
// left untouched and the error is reported.
func (c *Controller) DeleteChat() error {
	gen, ctx := c.snapshot()
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	if err := chat.Delete(ctx); err != nil {
		c.reportError(gen, err)
		return err
	}
	c.Select(nil)
	return nil
}

// Error returns the current banner message, empty when there is none.
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// DismissError clears the banner. It never retries the failed operation.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastError = ""
}

// reportError sets the banner unless the selection has moved on since the
// failed operation started; stale failures are dropped.
func (c *Controller) reportError(generation int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return
	}
	c.lastError = UserMessage(err)
}

// UserMessage converts an error from the core into the single user-visible
// string shown on the banner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return "The uploaded file is no longer available on the server. Please upload it again."
	}
	var timeout *TimeoutError
	if errors.As(err, &timeout) {
		return "Processing is taking longer than expected. Please check the document status later."
	}
	var network *NetworkError
	if errors.As(err, &network) {
		return "Could not reach the backend. Check your connection and try again."
	}
	var source *SourceUnavailableError
	if errors.As(err, &source) {
		return "The document's text has not been extracted yet. Process the document and try again."
	}
	if errors.Is(err, context.Canceled) {
		return ""
	}
	return err.Error()
}
