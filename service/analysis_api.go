package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/venkatramks/legal-ai-frontend/model"
)

// AnalyzeClauses runs a fresh clause analysis for a document. When the failure
// cause is missing source text the error is a SourceUnavailableError so
// callers can offer the process-then-retry remediation path.
func (c *Client) AnalyzeClauses(ctx context.Context, documentID string) ([]model.ClauseRecord, error) {
	var out struct {
		Clauses []model.ClauseRecord `json:"clauses"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/analysis/clauses/"+documentID, nil, &out); err != nil {
		if isSourceUnavailable(err) {
			return nil, &SourceUnavailableError{DocumentID: documentID}
		}
		return nil, err
	}
	return out.Clauses, nil
}

// isSourceUnavailable recognizes the backend's "document has no extracted
// text" failure from the error message, since the status code alone does not
// distinguish it.
func isSourceUnavailable(err error) bool {
	var pe *ProcessingError
	if !errors.As(err, &pe) {
		return false
	}
	msg := strings.ToLower(pe.Message)
	return strings.Contains(msg, "source text") || strings.Contains(msg, "not processed") ||
		strings.Contains(msg, "no extracted text")
}

// GetPersistedClauses fetches the stored clause set for a document. A non-OK
// response means none are persisted.
func (c *Client) GetPersistedClauses(ctx context.Context, documentID string) ([]model.ClauseRecord, error) {
	var out struct {
		Clauses []model.ClauseRecord `json:"clauses"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/analysis/clauses/"+documentID+"/persisted", nil, &out); err != nil {
		return nil, err
	}
	return out.Clauses, nil
}

// PersistClauses stores the full clause set, including cached enrichment.
func (c *Client) PersistClauses(ctx context.Context, documentID string, clauses []model.ClauseRecord) (*model.PersistResult, error) {
	body := map[string]any{"clauses": clauses}
	var result model.PersistResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/analysis/clauses/"+documentID+"/persist", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UndoClauses deletes the given persisted clause ids server-side.
func (c *Client) UndoClauses(ctx context.Context, documentID string, clauseIDs []string) error {
	body := map[string]any{"clause_ids": clauseIDs}
	return c.doJSON(ctx, http.MethodPost, "/api/analysis/clauses/"+documentID+"/undo", body, nil)
}

// EnrichmentRequest describes the clause whose derived artifacts are wanted.
type EnrichmentRequest struct {
	ClauseText   string `json:"clauseText"`
	DocumentType string `json:"documentType"`
	ClauseType   string `json:"clauseType"`
}

// WhatIfScenarios generates what-if scenarios for a clause.
func (c *Client) WhatIfScenarios(ctx context.Context, req EnrichmentRequest) ([]model.Scenario, error) {
	var out struct {
		Scenarios []model.Scenario `json:"scenarios"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/what-if-scenarios", req, &out); err != nil {
		return nil, err
	}
	return out.Scenarios, nil
}

// LegalReferences queries the legal knowledge graph for a clause.
func (c *Client) LegalReferences(ctx context.Context, req EnrichmentRequest) ([]model.LegalReference, error) {
	var out struct {
		References []model.LegalReference `json:"references"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/legal-knowledge-graph", req, &out); err != nil {
		return nil, err
	}
	return out.References, nil
}
