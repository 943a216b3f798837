package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/venkatramks/legal-ai-frontend/config"
	"github.com/venkatramks/legal-ai-frontend/model"
	"github.com/venkatramks/legal-ai-frontend/store"
)

type ProcessHandler struct {
	store      *store.Store
	objects    store.ObjectStore
	processing config.ProcessingConfig
}

func NewProcessHandler(st *store.Store, objects store.ObjectStore, processing config.ProcessingConfig) *ProcessHandler {
	return &ProcessHandler{store: st, objects: objects, processing: processing}
}

// Start begins processing an uploaded file. The job is registered before the
// 202 goes out so the first status poll always finds it.
func (h *ProcessHandler) Start(c *gin.Context) {
	fileID := c.Param("fileId")

	// Reprocess requests arrive with a document id instead of a file id.
	if doc := h.store.GetDocument(fileID); doc != nil {
		h.reprocessDocument(c, doc)
		return
	}

	file := h.store.GetFile(fileID)
	if file == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Uploaded file not found"})
		return
	}

	if job := h.store.GetJob(fileID); job != nil && job.Status == model.ProcessPending {
		c.Status(http.StatusAccepted)
		return
	}

	h.store.SaveJob(&store.Job{FileID: fileID, Status: model.ProcessPending})
	go h.runExtraction(file)

	c.Status(http.StatusAccepted)
}

// reprocessDocument re-runs extraction for an existing document. The simulated
// pipeline has nothing new to extract, so it completes synchronously.
func (h *ProcessHandler) reprocessDocument(c *gin.Context, doc *model.Document) {
	if h.store.GetText(doc.ID) == "" {
		h.store.SetText(doc.ID, sampleContractText(doc.FileName))
	}
	c.JSON(http.StatusOK, gin.H{
		"result": model.ProcessResult{DocumentID: doc.ID},
	})
}

// Status reports the state of a processing job.
func (h *ProcessHandler) Status(c *gin.Context) {
	fileID := c.Param("fileId")

	job := h.store.GetJob(fileID)
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Processing job not found"})
		return
	}

	status := model.ProcessStatus{
		Status:     job.Status,
		DocumentID: job.DocumentID,
		ErrorMsg:   job.ErrorMsg,
	}
	if job.Status == model.ProcessDone && job.DocumentID != "" {
		status.Result = &model.ProcessResult{DocumentID: job.DocumentID}
	}
	c.JSON(http.StatusOK, status)
}

// runExtraction simulates the OCR pipeline: a configurable number of pending
// ticks, then the document appears with its extracted text.
func (h *ProcessHandler) runExtraction(file *store.UploadedFile) {
	delay := time.Duration(h.processing.DelayMs) * time.Millisecond
	for i := 0; i < h.processing.Steps; i++ {
		time.Sleep(delay)
	}

	text, pages, err := h.extractText(file)
	if err != nil {
		slog.Error("simulated extraction failed", "file_id", file.FileID, "error", err)
		h.store.UpdateJob(file.FileID, model.ProcessError, "", err.Error())
		return
	}

	now := time.Now()
	doc := &model.Document{
		ID:          uuid.New().String(),
		FileName:    file.FileName,
		CreatedAt:   now,
		ProcessedAt: &now,
		OCRMetadata: map[string]any{
			"engine": "simulated",
			"pages":  pages,
		},
	}
	h.store.SaveDocument(doc, text)
	h.store.UpdateJob(file.FileID, model.ProcessDone, doc.ID, "")

	slog.Info("simulated extraction completed",
		"file_id", file.FileID,
		"document_id", doc.ID,
		"pages", pages,
	)
}

// extractText reads the stored object and uses its content when it is valid
// text; binary formats get a generated stand-in since no real OCR runs here.
func (h *ProcessHandler) extractText(file *store.UploadedFile) (string, int, error) {
	rc, err := h.objects.Get(context.Background(), file.ObjectName)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read stored object: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read stored object: %w", err)
	}

	text := string(data)
	if !utf8.ValidString(text) || strings.HasPrefix(text, "%PDF") || strings.HasPrefix(text, "PK") {
		text = sampleContractText(file.FileName)
	}

	pages := len(text)/2000 + 1
	return text, pages, nil
}

// sampleContractText stands in for OCR output of binary documents.
func sampleContractText(fileName string) string {
	return fmt.Sprintf(`AGREEMENT (%s)

1. Term. This Agreement commences on the Effective Date and continues for one year.

2. Termination. Either party may terminate this Agreement upon thirty days written notice. Upon termination all outstanding fees become immediately due.

3. Indemnification. Each party shall indemnify and hold harmless the other party from any claims arising out of its breach of this Agreement.

4. Limitation of Liability. In no event shall either party's aggregate liability exceed the fees paid in the twelve months preceding the claim.

5. Confidentiality. Each party shall keep the other party's confidential information strictly confidential.

6. Governing Law. This Agreement is governed by the laws of the State of Delaware.`, fileName)
}
