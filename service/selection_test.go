package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/venkatramks/legal-ai-frontend/model"
)

func newTestController(serverURL string) *Controller {
	client := newTestClient(serverURL)
	return NewController(client, newTestOrchestrator(serverURL, 60))
}

func TestSelectSwitchesDocumentState(t *testing.T) {
	c := newTestController("http://unused")

	d1 := &model.Document{ID: "d1", FileName: "a.pdf"}
	c.Select(d1)

	if c.Selected().ID != "d1" {
		t.Fatalf("Expected d1 selected, got %+v", c.Selected())
	}
	chat1, analysis1 := c.Chat(), c.Analysis()
	if chat1 == nil || chat1.DocumentID() != "d1" {
		t.Error("Expected chat session for d1")
	}
	if analysis1 == nil {
		t.Error("Expected clause analysis for d1")
	}

	d2 := &model.Document{ID: "d2", FileName: "b.pdf"}
	c.Select(d2)

	if c.Chat() == chat1 {
		t.Error("Expected a fresh chat session after switching documents")
	}
	if c.Analysis() == analysis1 {
		t.Error("Expected a fresh clause analysis after switching documents")
	}
}

func TestSelectNilReturnsToUploadScreen(t *testing.T) {
	c := newTestController("http://unused")
	c.Select(&model.Document{ID: "d1"})
	c.Select(nil)

	if c.Selected() != nil {
		t.Error("Expected no selection")
	}
	if c.Chat() != nil || c.Analysis() != nil {
		t.Error("Expected chat and analysis cleared")
	}
}

func TestSelectCancelsSelectionContext(t *testing.T) {
	c := newTestController("http://unused")
	ctx := c.SelectionContext()

	c.Select(&model.Document{ID: "d1"})

	select {
	case <-ctx.Done():
	default:
		t.Error("Expected the previous selection context to be cancelled")
	}
	if c.SelectionContext().Err() != nil {
		t.Error("Expected the new selection context to be live")
	}
}

func TestStaleUploadDoesNotOverrideSelection(t *testing.T) {
	uploadStarted := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
			return
		}
		// Drain the body so the server starts its background read and can
		// cancel r.Context() when the client disconnects.
		io.Copy(io.Discard, r.Body)
		close(uploadStarted)
		// Block until the client gives up; the selection switch cancels it.
		<-r.Context().Done()
	}))
	defer server.Close()

	c := newTestController(server.URL)

	done := make(chan error, 1)
	go func() {
		_, err := c.UploadAndSelect("a.pdf", strings.NewReader("data"))
		done <- err
	}()

	<-uploadStarted
	d2 := &model.Document{ID: "d2", FileName: "b.pdf"}
	c.Select(d2)

	if err := <-done; err == nil {
		t.Fatal("Expected the superseded upload to fail")
	}
	if c.Selected() == nil || c.Selected().ID != "d2" {
		t.Errorf("Expected selection to stay on d2, got %+v", c.Selected())
	}
	if c.Error() != "" {
		t.Errorf("Expected no banner for a stale failure, got '%s'", c.Error())
	}
}

func TestErrorBannerSetAndDismiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "model unavailable"}`))
	}))
	defer server.Close()

	c := newTestController(server.URL)
	c.Select(&model.Document{ID: "d1"})

	if _, err := c.SendMessage("hello"); err == nil {
		t.Fatal("Expected error")
	}
	if c.Error() != "model unavailable" {
		t.Errorf("Expected banner with backend message, got '%s'", c.Error())
	}

	c.DismissError()
	if c.Error() != "" {
		t.Error("Expected banner cleared after dismiss")
	}
}

func TestSendMessageWithoutSelection(t *testing.T) {
	c := newTestController("http://unused")
	_, err := c.SendMessage("hello")

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestDeleteChatClearsSelection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestController(server.URL)
	c.Select(&model.Document{ID: "d1"})

	if err := c.DeleteChat(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.Selected() != nil {
		t.Error("Expected selection cleared after chat delete")
	}
}

func TestDeleteChatFailureKeepsSelection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "delete failed"}`))
	}))
	defer server.Close()

	c := newTestController(server.URL)
	c.Select(&model.Document{ID: "d1"})

	if err := c.DeleteChat(); err == nil {
		t.Fatal("Expected error")
	}
	if c.Selected() == nil || c.Selected().ID != "d1" {
		t.Error("Expected selection untouched after failed delete")
	}
	if c.Error() == "" {
		t.Error("Expected banner set after failed delete")
	}
}

func TestUserMessageMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"cancelled", context.Canceled, ""},
		{
			"not found",
			&NotFoundError{Message: "gone"},
			"The uploaded file is no longer available on the server. Please upload it again.",
		},
		{
			"timeout",
			&TimeoutError{TargetID: "f1", Attempts: 60},
			"Processing is taking longer than expected. Please check the document status later.",
		},
		{
			"network",
			&NetworkError{Err: errors.New("connection refused")},
			"Could not reach the backend. Check your connection and try again.",
		},
		{
			"source unavailable",
			&SourceUnavailableError{DocumentID: "d1"},
			"The document's text has not been extracted yet. Process the document and try again.",
		},
		{"other", &ProcessingError{Message: "bad input"}, "bad input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}
