package store

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/venkatramks/legal-ai-frontend/model"
)

// UploadedFile tracks one upload before it becomes a document.
type UploadedFile struct {
	FileID      string
	FileName    string
	ObjectName  string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}

// Job is the server-side processing state for one uploaded file.
type Job struct {
	FileID     string
	Status     string // pending, done, error
	DocumentID string
	ErrorMsg   string
	UpdatedAt  time.Time
}

// Store is the in-memory state of the reference backend: uploads, processing
// jobs, documents with their extracted text, chat histories and persisted
// clause sets. In production this would be a database.
type Store struct {
	mu           sync.RWMutex
	files        map[string]*UploadedFile
	jobs         map[string]*Job
	documents    map[string]*model.Document
	texts        map[string]string
	chats        map[string][]model.ChatMessage
	persisted    map[string][]model.ClauseRecord
	maxDocuments int // Maximum documents to keep, 0 = unlimited
}

func NewStore(maxDocuments int) *Store {
	if maxDocuments < 0 {
		maxDocuments = 0
	}
	return &Store{
		files:        make(map[string]*UploadedFile),
		jobs:         make(map[string]*Job),
		documents:    make(map[string]*model.Document),
		texts:        make(map[string]string),
		chats:        make(map[string][]model.ChatMessage),
		persisted:    make(map[string][]model.ClauseRecord),
		maxDocuments: maxDocuments,
	}
}

func (s *Store) SaveFile(f *UploadedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[f.FileID] = f
}

func (s *Store) GetFile(fileID string) *UploadedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[fileID]
}

// SaveJob registers a processing job. The job must exist before the start
// request returns so the first status poll never races with registration.
func (s *Store) SaveJob(j *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j.UpdatedAt = time.Now()
	s.jobs[j.FileID] = j
}

func (s *Store) GetJob(fileID string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs[fileID]
}

func (s *Store) UpdateJob(fileID, status, documentID, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[fileID]; ok {
		j.Status = status
		j.DocumentID = documentID
		j.ErrorMsg = errMsg
		j.UpdatedAt = time.Now()
	}
}

func (s *Store) SaveDocument(doc *model.Document, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[doc.ID] = doc
	s.texts[doc.ID] = text

	s.cleanupIfNeeded()
}

func (s *Store) GetDocument(id string) *model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documents[id]
}

// ListDocuments returns all documents ordered oldest first.
func (s *Store) ListDocuments() []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Document, 0, len(s.documents))
	for _, d := range s.documents {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (s *Store) GetText(documentID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.texts[documentID]
}

func (s *Store) SetText(documentID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[documentID] = text
}

func (s *Store) AppendChat(documentID string, msg model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[documentID] = append(s.chats[documentID], msg)
}

func (s *Store) GetChats(documentID string) []model.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chats := s.chats[documentID]
	result := make([]model.ChatMessage, len(chats))
	copy(result, chats)
	return result
}

func (s *Store) DeleteChats(documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chats, documentID)
}

// SavePersisted replaces the document's persisted clause set.
func (s *Store) SavePersisted(documentID string, clauses []model.ClauseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]model.ClauseRecord, len(clauses))
	copy(stored, clauses)
	s.persisted[documentID] = stored
}

func (s *Store) GetPersisted(documentID string) []model.ClauseRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clauses := s.persisted[documentID]
	result := make([]model.ClauseRecord, len(clauses))
	copy(result, clauses)
	return result
}

// RemovePersisted deletes the given clause ids from the document's persisted
// set and returns how many were removed.
func (s *Store) RemovePersisted(documentID string, clauseIDs []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	remove := make(map[string]struct{}, len(clauseIDs))
	for _, id := range clauseIDs {
		remove[id] = struct{}{}
	}

	kept := s.persisted[documentID][:0]
	removed := 0
	for _, clause := range s.persisted[documentID] {
		if _, gone := remove[clause.ID]; gone {
			removed++
			continue
		}
		kept = append(kept, clause)
	}
	if len(kept) == 0 {
		delete(s.persisted, documentID)
	} else {
		s.persisted[documentID] = kept
	}
	return removed
}

// cleanupIfNeeded removes oldest documents if the store exceeds maxDocuments.
// Must be called with lock held.
func (s *Store) cleanupIfNeeded() {
	if s.maxDocuments <= 0 {
		return // Unlimited
	}

	if len(s.documents) <= s.maxDocuments {
		return
	}

	documents := make([]*model.Document, 0, len(s.documents))
	for _, d := range s.documents {
		documents = append(documents, d)
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].CreatedAt.Before(documents[j].CreatedAt)
	})

	removeCount := len(documents) - s.maxDocuments
	for i := 0; i < removeCount; i++ {
		doc := documents[i]
		slog.Info("auto-cleaning old document",
			"document_id", doc.ID,
			"created_at", doc.CreatedAt,
		)
		delete(s.documents, doc.ID)
		delete(s.texts, doc.ID)
		delete(s.chats, doc.ID)
		delete(s.persisted, doc.ID)
	}
}

// CountDocuments returns the number of documents in the store.
func (s *Store) CountDocuments() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}
