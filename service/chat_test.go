package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/venkatramks/legal-ai-frontend/model"
)

func TestChatSendOptimisticAppend(t *testing.T) {
	received := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(received)
		<-release
		json.NewEncoder(w).Encode(map[string]string{"message": "The indemnity clause caps liability."})
	}))
	defer server.Close()

	session := NewChatSession(newTestClient(server.URL), "d1")

	done := make(chan error, 1)
	go func() {
		_, err := session.Send(context.Background(), "explain the indemnity clause")
		done <- err
	}()

	// The user's message must be visible before the backend responds.
	<-received
	messages := session.Messages()
	if len(messages) != 1 {
		t.Fatalf("Expected 1 optimistic message, got %d", len(messages))
	}
	if messages[0].Role != model.RoleUser || messages[0].Message != "explain the indemnity clause" {
		t.Errorf("Unexpected optimistic message: %+v", messages[0])
	}
	if !model.IsProvisional(messages[0].ID) {
		t.Error("Expected optimistic message to carry a provisional id")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	messages = session.Messages()
	if len(messages) != 2 {
		t.Fatalf("Expected user and assistant messages, got %d", len(messages))
	}
	if messages[1].Role != model.RoleAssistant {
		t.Errorf("Expected assistant reply, got %+v", messages[1])
	}
}

func TestChatSendFailureKeepsUserMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "model unavailable"}`))
	}))
	defer server.Close()

	session := NewChatSession(newTestClient(server.URL), "d1")
	_, err := session.Send(context.Background(), "hello")

	if err == nil {
		t.Fatal("Expected error")
	}
	messages := session.Messages()
	if len(messages) != 1 {
		t.Fatalf("Expected the failed user message to remain, got %d messages", len(messages))
	}
	if messages[0].Role != model.RoleUser {
		t.Errorf("Expected user message, got %+v", messages[0])
	}
}

func TestChatSendEmptyMessage(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer server.Close()

	session := NewChatSession(newTestClient(server.URL), "d1")
	_, err := session.Send(context.Background(), "   \n\t ")

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if atomic.LoadInt32(&requests) != 0 {
		t.Error("Expected no backend request for an empty message")
	}
	if len(session.Messages()) != 0 {
		t.Error("Expected no message appended for an empty send")
	}
}

func TestChatLoadHistoryReplaces(t *testing.T) {
	history := []model.ChatMessage{
		{ID: "m1", Role: model.RoleUser, Message: "hi", CreatedAt: time.Now()},
		{ID: "m2", Role: model.RoleAssistant, Message: "hello", CreatedAt: time.Now()},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"chats": history})
	}))
	defer server.Close()

	session := NewChatSession(newTestClient(server.URL), "d1")

	if err := session.LoadHistory(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := session.LoadHistory(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	messages := session.Messages()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages after repeated loads, got %d", len(messages))
	}
	if messages[0].ID != "m1" || messages[1].ID != "m2" {
		t.Errorf("Expected server history order, got %+v", messages)
	}
}

func TestChatDeleteClearsOnSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "DELETE" && r.URL.Path == "/api/chats/d1":
			w.WriteHeader(http.StatusOK)
		default:
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		}
	}))
	defer server.Close()

	session := NewChatSession(newTestClient(server.URL), "d1")
	if _, err := session.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := session.Delete(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(session.Messages()) != 0 {
		t.Error("Expected empty history after delete")
	}
}

func TestChatDeleteFailureKeepsHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "DELETE":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "delete failed"}`))
		default:
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		}
	}))
	defer server.Close()

	session := NewChatSession(newTestClient(server.URL), "d1")
	if _, err := session.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := session.Delete(context.Background()); err == nil {
		t.Fatal("Expected error")
	}
	if len(session.Messages()) != 2 {
		t.Errorf("Expected history untouched after failed delete, got %d messages", len(session.Messages()))
	}
}
