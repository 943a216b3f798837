package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/venkatramks/legal-ai-frontend/model"
	"github.com/venkatramks/legal-ai-frontend/store"
)

type AnalysisHandler struct {
	store *store.Store
}

func NewAnalysisHandler(st *store.Store) *AnalysisHandler {
	return &AnalysisHandler{store: st}
}

// riskKeywords maps keyword stems to the risk level they indicate. Stems so
// "indemnify", "indemnification" and "indemnity" all match.
var riskKeywords = map[string]string{
	"indemnif":  model.RiskHigh,
	"terminat":  model.RiskHigh,
	"liabilit":  model.RiskHigh,
	"penalt":    model.RiskHigh,
	"breach":    model.RiskHigh,
	"warrant":   model.RiskMedium,
	"confident": model.RiskMedium,
	"governing": model.RiskMedium,
	"exclusiv":  model.RiskMedium,
	"assign":    model.RiskMedium,
}

// Analyze runs a fresh clause analysis over the document's extracted text.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	documentID := c.Param("documentId")
	if h.store.GetDocument(documentID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	text := h.store.GetText(documentID)
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "document has not been processed yet, no source text available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clauses": segmentClauses(text)})
}

// Persisted returns the stored clause set, empty when none was persisted.
func (h *AnalysisHandler) Persisted(c *gin.Context) {
	documentID := c.Param("documentId")
	if h.store.GetDocument(documentID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clauses": h.store.GetPersisted(documentID)})
}

type persistRequest struct {
	Clauses []model.ClauseRecord `json:"clauses" binding:"required"`
}

// Persist stores the submitted clause set, assigning fresh server-side ids.
func (h *AnalysisHandler) Persist(c *gin.Context) {
	documentID := c.Param("documentId")
	if h.store.GetDocument(documentID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	var req persistRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Clauses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No clauses provided"})
		return
	}

	inserted := make([]string, len(req.Clauses))
	for i := range req.Clauses {
		req.Clauses[i].ID = uuid.New().String()
		inserted[i] = req.Clauses[i].ID
	}
	h.store.SavePersisted(documentID, req.Clauses)

	c.JSON(http.StatusOK, model.PersistResult{
		Count:    len(inserted),
		Inserted: inserted,
	})
}

type undoRequest struct {
	ClauseIDs []string `json:"clause_ids" binding:"required"`
}

// Undo removes persisted clauses by id.
func (h *AnalysisHandler) Undo(c *gin.Context) {
	documentID := c.Param("documentId")
	if h.store.GetDocument(documentID) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	var req undoRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ClauseIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No clause ids provided"})
		return
	}

	removed := h.store.RemovePersisted(documentID, req.ClauseIDs)
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

type enrichmentRequest struct {
	ClauseText   string `json:"clauseText" binding:"required"`
	DocumentType string `json:"documentType"`
	ClauseType   string `json:"clauseType"`
}

// WhatIfScenarios generates what-if scenarios for a clause.
func (h *AnalysisHandler) WhatIfScenarios(c *gin.Context) {
	var req enrichmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": generateScenarios(req)})
}

// LegalReferences answers legal knowledge graph lookups for a clause.
func (h *AnalysisHandler) LegalReferences(c *gin.Context) {
	var req enrichmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"references": generateReferences(req)})
}

// segmentClauses splits extracted text into clauses on blank lines and scores
// each one by keyword.
func segmentClauses(text string) []model.ClauseRecord {
	var clauses []model.ClauseRecord
	pos := 0
	for _, segment := range strings.Split(text, "\n\n") {
		start := strings.Index(text[pos:], segment) + pos
		end := start + len(segment)
		pos = end

		trimmed := strings.TrimSpace(segment)
		if len(trimmed) < 20 {
			continue
		}

		risk, highlights := scoreRisk(trimmed)
		clauses = append(clauses, model.ClauseRecord{
			ID:         uuid.New().String(),
			ClauseText: trimmed,
			Risk:       risk,
			Highlights: highlights,
			StartPos:   start,
			EndPos:     end,
		})
	}
	return clauses
}

// scoreRisk returns the highest risk level indicated by any keyword in the
// clause plus the keywords that matched.
func scoreRisk(clause string) (string, []string) {
	lower := strings.ToLower(clause)
	risk := model.RiskLow
	var highlights []string

	for stem, level := range riskKeywords {
		if !strings.Contains(lower, stem) {
			continue
		}
		highlights = append(highlights, stem)
		if level == model.RiskHigh {
			risk = model.RiskHigh
		} else if risk != model.RiskHigh {
			risk = model.RiskMedium
		}
	}
	return risk, highlights
}

func generateScenarios(req enrichmentRequest) []model.Scenario {
	summary := clauseSummary(req.ClauseText)
	scenarios := []model.Scenario{
		{
			Title:       "Dispute over interpretation",
			Description: fmt.Sprintf("The parties disagree on how %q applies to an edge case not spelled out in the %s.", summary, documentTypeOrDefault(req)),
			Likelihood:  "medium",
		},
	}
	if req.ClauseType == model.RiskHigh {
		scenarios = append(scenarios, model.Scenario{
			Title:       "Enforcement against you",
			Description: fmt.Sprintf("The counterparty invokes %q after an alleged breach, exposing you to its full consequences.", summary),
			Likelihood:  "high",
		})
	}
	return scenarios
}

func generateReferences(req enrichmentRequest) []model.LegalReference {
	references := []model.LegalReference{
		{
			Title:     "Restatement (Second) of Contracts",
			Citation:  "Restatement (Second) of Contracts § 205",
			Relevance: "General duty of good faith and fair dealing in performance and enforcement.",
		},
	}
	lower := strings.ToLower(req.ClauseText)
	if strings.Contains(lower, "indemnif") || strings.Contains(lower, "liabilit") {
		references = append(references, model.LegalReference{
			Title:     "UCC Article 2 remedy limitations",
			Citation:  "UCC § 2-719",
			Relevance: "Limits on contractual modification of remedies and liability.",
		})
	}
	if strings.Contains(lower, "terminat") {
		references = append(references, model.LegalReference{
			Title:     "Termination notice requirements",
			Citation:  "UCC § 2-309",
			Relevance: "Reasonable notification requirements for contract termination.",
		})
	}
	return references
}

func clauseSummary(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > 60 {
		return text[:60] + "..."
	}
	return text
}

func documentTypeOrDefault(req enrichmentRequest) string {
	if req.DocumentType != "" {
		return req.DocumentType
	}
	return "contract"
}
