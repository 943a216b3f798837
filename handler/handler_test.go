package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/venkatramks/legal-ai-frontend/config"
	"github.com/venkatramks/legal-ai-frontend/model"
	"github.com/venkatramks/legal-ai-frontend/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestBackend() (*gin.Engine, *store.Store) {
	cfg := &config.ServerConfig{
		MaxDocuments: 100,
		Processing:   config.ProcessingConfig{DelayMs: 1, Steps: 1},
	}
	st := store.NewStore(cfg.MaxDocuments)
	return NewRouter(cfg, st, store.NewMemoryObjectStore()), st
}

func multipartUpload(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("Failed to build form: %v", err)
	}
	part.Write([]byte(content))
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func doRequest(router *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonRequest(router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if payload != nil {
		json.NewEncoder(&buf).Encode(payload)
	}
	return doRequest(router, method, path, &buf, "application/json")
}

func TestUploadTxtCompletesSynchronously(t *testing.T) {
	router, _ := newTestBackend()

	body, contentType := multipartUpload(t, "small.txt", "Either party may terminate this agreement at any time.")
	w := doRequest(router, "POST", "/api/upload", body, contentType)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result model.UploadResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Immediate == nil || result.Immediate.DocumentID == "" {
		t.Fatalf("Expected immediate result for small text upload, got %+v", result)
	}

	w = doRequest(router, "GET", "/api/documents", nil, "")
	var list struct {
		Documents []model.Document `json:"documents"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Documents) != 1 || list.Documents[0].ID != result.Immediate.DocumentID {
		t.Errorf("Expected the document listed, got %+v", list.Documents)
	}
}

func TestUploadRejectsUnknownExtension(t *testing.T) {
	router, _ := newTestBackend()

	body, contentType := multipartUpload(t, "malware.exe", "binary")
	w := doRequest(router, "POST", "/api/upload", body, contentType)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unsupported extension, got %d", w.Code)
	}
}

func TestProcessFlow(t *testing.T) {
	router, _ := newTestBackend()

	body, contentType := multipartUpload(t, "contract.pdf", "%PDF-1.4 fake pdf bytes")
	w := doRequest(router, "POST", "/api/upload", body, contentType)
	if w.Code != http.StatusOK {
		t.Fatalf("Upload failed: %d %s", w.Code, w.Body.String())
	}

	var up model.UploadResult
	json.Unmarshal(w.Body.Bytes(), &up)
	if up.FileID == "" || up.Immediate != nil {
		t.Fatalf("Expected async upload result, got %+v", up)
	}

	w = doRequest(router, "POST", "/api/process/"+up.FileID, nil, "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
	}

	// The job is registered before the 202, so the first poll always finds it.
	deadline := time.Now().Add(5 * time.Second)
	var status model.ProcessStatus
	for {
		w = doRequest(router, "GET", "/api/process/status/"+up.FileID, nil, "")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200 from status, got %d", w.Code)
		}
		json.Unmarshal(w.Body.Bytes(), &status)
		if status.Status != model.ProcessPending {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Processing did not complete in time")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if status.Status != model.ProcessDone || status.DocumentID == "" {
		t.Fatalf("Expected done with document id, got %+v", status)
	}

	w = doRequest(router, "GET", "/api/documents", nil, "")
	var list struct {
		Documents []model.Document `json:"documents"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Documents) != 1 || list.Documents[0].ID != status.DocumentID {
		t.Errorf("Expected processed document listed, got %+v", list.Documents)
	}
}

func TestProcessUnknownFile(t *testing.T) {
	router, _ := newTestBackend()

	if w := doRequest(router, "POST", "/api/process/nope", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown file, got %d", w.Code)
	}
	if w := doRequest(router, "GET", "/api/process/status/nope", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown job, got %d", w.Code)
	}
}

func TestChatFlow(t *testing.T) {
	router, st := newTestBackend()
	st.SaveDocument(&model.Document{ID: "d1", FileName: "a.txt", CreatedAt: time.Now()},
		"Either party may terminate this agreement upon thirty days notice.")

	w := jsonRequest(router, "POST", "/api/chat/d1", gin.H{"message": "what about termination?"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var reply struct {
		Message string `json:"message"`
	}
	json.Unmarshal(w.Body.Bytes(), &reply)
	if !strings.Contains(reply.Message, "terminate") {
		t.Errorf("Expected canned reply quoting the matching line, got '%s'", reply.Message)
	}

	w = doRequest(router, "GET", "/api/chat/d1/history", nil, "")
	var history struct {
		Chats []model.ChatMessage `json:"chats"`
	}
	json.Unmarshal(w.Body.Bytes(), &history)
	if len(history.Chats) != 2 {
		t.Fatalf("Expected user and assistant messages, got %d", len(history.Chats))
	}
	if history.Chats[0].Role != model.RoleUser || history.Chats[1].Role != model.RoleAssistant {
		t.Errorf("Expected user then assistant, got %+v", history.Chats)
	}

	if w := doRequest(router, "DELETE", "/api/chats/d1", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from delete, got %d", w.Code)
	}
	w = doRequest(router, "GET", "/api/chat/d1/history", nil, "")
	json.Unmarshal(w.Body.Bytes(), &history)
	if len(history.Chats) != 0 {
		t.Error("Expected empty history after delete")
	}
}

func TestChatUnknownDocument(t *testing.T) {
	router, _ := newTestBackend()
	w := jsonRequest(router, "POST", "/api/chat/nope", gin.H{"message": "hi"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestAnalyzeWithoutSourceText(t *testing.T) {
	router, st := newTestBackend()
	st.SaveDocument(&model.Document{ID: "d1", FileName: "a.pdf", CreatedAt: time.Now()}, "")

	w := doRequest(router, "GET", "/api/analysis/clauses/d1", nil, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for missing source text, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not been processed") {
		t.Errorf("Expected processed-yet message, got %s", w.Body.String())
	}
}

func TestAnalyzeSegmentsAndScores(t *testing.T) {
	router, st := newTestBackend()
	text := "1. Term. This Agreement lasts one year from the Effective Date.\n\n" +
		"2. Termination. Either party may terminate upon thirty days notice and breach triggers penalties.\n\n" +
		"3. Confidentiality. Each party keeps the other's information confidential."
	st.SaveDocument(&model.Document{ID: "d1", FileName: "a.pdf", CreatedAt: time.Now()}, text)

	w := doRequest(router, "GET", "/api/analysis/clauses/d1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var out struct {
		Clauses []model.ClauseRecord `json:"clauses"`
	}
	json.Unmarshal(w.Body.Bytes(), &out)
	if len(out.Clauses) != 3 {
		t.Fatalf("Expected 3 clauses, got %d", len(out.Clauses))
	}
	if out.Clauses[0].Risk != model.RiskLow {
		t.Errorf("Expected term clause low risk, got %s", out.Clauses[0].Risk)
	}
	if out.Clauses[1].Risk != model.RiskHigh || len(out.Clauses[1].Highlights) == 0 {
		t.Errorf("Expected termination clause high risk with highlights, got %+v", out.Clauses[1])
	}
	if out.Clauses[2].Risk != model.RiskMedium {
		t.Errorf("Expected confidentiality clause medium risk, got %s", out.Clauses[2].Risk)
	}
}

func TestPersistAndUndoFlow(t *testing.T) {
	router, st := newTestBackend()
	st.SaveDocument(&model.Document{ID: "d1", FileName: "a.pdf", CreatedAt: time.Now()}, "text")

	clauses := []model.ClauseRecord{
		{ID: "c1", ClauseText: "one", Risk: model.RiskLow},
		{ID: "c2", ClauseText: "two", Risk: model.RiskHigh},
	}
	w := jsonRequest(router, "POST", "/api/analysis/clauses/d1/persist", gin.H{"clauses": clauses})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result model.PersistResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Count != 2 || len(result.Inserted) != 2 {
		t.Fatalf("Expected 2 inserted ids, got %+v", result)
	}
	if result.Inserted[0] == "c1" {
		t.Error("Expected server-assigned ids, got the client's")
	}

	w = doRequest(router, "GET", "/api/analysis/clauses/d1/persisted", nil, "")
	var persisted struct {
		Clauses []model.ClauseRecord `json:"clauses"`
	}
	json.Unmarshal(w.Body.Bytes(), &persisted)
	if len(persisted.Clauses) != 2 {
		t.Fatalf("Expected 2 persisted clauses, got %d", len(persisted.Clauses))
	}

	w = jsonRequest(router, "POST", "/api/analysis/clauses/d1/undo", gin.H{"clause_ids": result.Inserted})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	w = doRequest(router, "GET", "/api/analysis/clauses/d1/persisted", nil, "")
	json.Unmarshal(w.Body.Bytes(), &persisted)
	if len(persisted.Clauses) != 0 {
		t.Errorf("Expected empty persisted set after undo, got %d", len(persisted.Clauses))
	}
}

func TestEnrichmentEndpoints(t *testing.T) {
	router, _ := newTestBackend()

	payload := gin.H{
		"clauseText":   "Each party shall indemnify the other and either party may terminate.",
		"documentType": "contract",
		"clauseType":   model.RiskHigh,
	}

	w := jsonRequest(router, "POST", "/api/what-if-scenarios", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var scenarios struct {
		Scenarios []model.Scenario `json:"scenarios"`
	}
	json.Unmarshal(w.Body.Bytes(), &scenarios)
	if len(scenarios.Scenarios) < 2 {
		t.Errorf("Expected enforcement scenario for a high risk clause, got %+v", scenarios.Scenarios)
	}

	w = jsonRequest(router, "POST", "/api/legal-knowledge-graph", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var references struct {
		References []model.LegalReference `json:"references"`
	}
	json.Unmarshal(w.Body.Bytes(), &references)
	if len(references.References) < 3 {
		t.Errorf("Expected indemnity and termination references, got %+v", references.References)
	}
}

func TestAuthProtectedRoutes(t *testing.T) {
	cfg := &config.ServerConfig{
		MaxDocuments: 100,
		Processing:   config.ProcessingConfig{DelayMs: 1, Steps: 1},
		Auth: config.AuthConfig{
			Enabled:          true,
			JWTSecret:        "test-secret",
			TokenExpireHours: 1,
		},
		Users: []config.User{{Username: "alice", Password: "secret"}},
	}
	st := store.NewStore(cfg.MaxDocuments)
	router := NewRouter(cfg, st, store.NewMemoryObjectStore())

	if w := doRequest(router, "GET", "/api/documents", nil, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}

	w := jsonRequest(router, "POST", "/api/auth/login", gin.H{"username": "alice", "password": "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed: %d %s", w.Code, w.Body.String())
	}
	var login LoginResponse
	json.Unmarshal(w.Body.Bytes(), &login)
	if login.Token == "" {
		t.Fatal("Expected token in login response")
	}

	req := httptest.NewRequest("GET", "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with token, got %d", rec.Code)
	}

	w = jsonRequest(router, "POST", "/api/auth/login", gin.H{"username": "alice", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong password, got %d", w.Code)
	}
}
