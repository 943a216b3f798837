package model

import (
	"time"
)

// Document represents a processed legal document as reported by the backend.
// Immutable from the client's perspective except for OCRMetadata, which appears
// asynchronously once text extraction completes.
type Document struct {
	ID          string         `json:"id"`
	FileName    string         `json:"file_name"`
	CreatedAt   time.Time      `json:"created_at"`
	ProcessedAt *time.Time     `json:"processed_at,omitempty"`
	OCRMetadata map[string]any `json:"ocr_metadata,omitempty"`
}

// UploadResult is what the upload endpoint returns. When the backend finished
// processing synchronously, Immediate carries the result and no processing job
// needs to be started.
type UploadResult struct {
	FileID    string         `json:"file_id"`
	FileName  string         `json:"filename"`
	Immediate *ProcessResult `json:"result,omitempty"`
}

// ProcessResult is the payload of a completed processing job.
type ProcessResult struct {
	DocumentID string         `json:"document_id,omitempty"`
	Pages      int            `json:"pages,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ProcessStatus is the status endpoint's response for a processing job.
type ProcessStatus struct {
	Status     string         `json:"status"` // pending, done, error
	DocumentID string         `json:"document_id,omitempty"`
	Result     *ProcessResult `json:"result,omitempty"`
	ErrorMsg   string         `json:"error,omitempty"`
}

// Processing status values
const (
	ProcessPending = "pending"
	ProcessDone    = "done"
	ProcessError   = "error"
)
