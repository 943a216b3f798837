package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/venkatramks/legal-ai-frontend/model"
)

// ListDocuments fetches the document collection.
func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	var out struct {
		Documents []model.Document `json:"documents"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/documents", nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// UploadDocument uploads a file for processing. When the backend processes the
// file synchronously the returned UploadResult carries an immediate result.
func (c *Client) UploadDocument(ctx context.Context, fileName string, r io.Reader) (*model.UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.apiError(resp)
	}

	var result model.UploadResult
	if err := decodeBody(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StartProcessing asks the backend to process an uploaded file. A 202 means
// the job was accepted and must be polled; a 200 carries the finished result.
// Any other response is a fatal failure for this job.
func (c *Client) StartProcessing(ctx context.Context, fileID string) (*model.ProcessResult, bool, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/process/"+fileID, nil)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		io.Copy(io.Discard, resp.Body)
		return nil, true, nil
	case http.StatusOK:
		var out struct {
			Result *model.ProcessResult `json:"result"`
		}
		if err := decodeBody(resp, &out); err != nil {
			return nil, false, err
		}
		return out.Result, false, nil
	default:
		return nil, false, c.apiError(resp)
	}
}

// GetProcessStatus polls a processing job. A 404 means the uploaded artifact
// is no longer resolvable server-side and comes back as NotFoundError.
func (c *Client) GetProcessStatus(ctx context.Context, fileID string) (*model.ProcessStatus, error) {
	var status model.ProcessStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/process/status/"+fileID, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
