package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/venkatramks/legal-ai-frontend/model"
	"github.com/venkatramks/legal-ai-frontend/store"
)

// syncUploadLimit is the size under which plain-text uploads are processed
// synchronously: there is no OCR work to simulate, so the upload response
// carries the finished result directly.
const syncUploadLimit = 64 * 1024

type DocumentHandler struct {
	store   *store.Store
	objects store.ObjectStore
}

func NewDocumentHandler(st *store.Store, objects store.ObjectStore) *DocumentHandler {
	return &DocumentHandler{store: st, objects: objects}
}

// List returns all documents
func (h *DocumentHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"documents": h.store.ListDocuments()})
}

// Upload handles document file upload
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".docx" && ext != ".txt" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF, DOCX and TXT files are allowed"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		switch ext {
		case ".pdf":
			contentType = "application/pdf"
		case ".docx":
			contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		default:
			contentType = "text/plain"
		}
	}

	// Small plain-text files skip the processing pipeline entirely.
	if ext == ".txt" && header.Size <= syncUploadLimit {
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}

		now := time.Now()
		doc := &model.Document{
			ID:          uuid.New().String(),
			FileName:    header.Filename,
			CreatedAt:   now,
			ProcessedAt: &now,
			OCRMetadata: map[string]any{"engine": "none", "pages": 1},
		}
		h.store.SaveDocument(doc, string(data))

		c.JSON(http.StatusOK, model.UploadResult{
			FileID:   doc.ID,
			FileName: header.Filename,
			Immediate: &model.ProcessResult{
				DocumentID: doc.ID,
				Pages:      1,
			},
		})
		return
	}

	fileID := uuid.New().String()
	objectName := fmt.Sprintf("uploads/%s/%s", fileID, header.Filename)

	if err := h.objects.Put(c.Request.Context(), objectName, file, header.Size, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file: " + err.Error()})
		return
	}

	h.store.SaveFile(&store.UploadedFile{
		FileID:      fileID,
		FileName:    header.Filename,
		ObjectName:  objectName,
		ContentType: contentType,
		Size:        header.Size,
		UploadedAt:  time.Now(),
	})

	c.JSON(http.StatusOK, model.UploadResult{
		FileID:   fileID,
		FileName: header.Filename,
	})
}
