package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/venkatramks/legal-ai-frontend/model"
)

// ClauseAnalysis caches per-clause derived artifacts for one document and
// tracks which clauses are persisted server-side. Persistence is modelled as
// a set of persisted clause ids; the document-level "persisted" flag is
// derived as "set is non-empty", so undoing part of a clause set does not
// lose information.
//
// The object's lifecycle is tied to document selection: switching documents
// discards it together with its caches.
type ClauseAnalysis struct {
	client       *Client
	documentID   string
	documentType string

	mu         sync.Mutex
	checked    bool
	clauses    []model.ClauseRecord
	persisted  map[string]struct{}
	scenarios  map[string][]model.Scenario
	references map[string][]model.LegalReference
	inflight   map[string]chan struct{}
}

func NewClauseAnalysis(client *Client, documentID string) *ClauseAnalysis {
	return &ClauseAnalysis{
		client:       client,
		documentID:   documentID,
		documentType: "contract",
		persisted:    make(map[string]struct{}),
		scenarios:    make(map[string][]model.Scenario),
		references:   make(map[string][]model.LegalReference),
		inflight:     make(map[string]chan struct{}),
	}
}

// Persisted reports whether any clause of this document is stored server-side.
func (a *ClauseAnalysis) Persisted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.persisted) > 0
}

// PersistedIDs returns the ids of the currently persisted clauses.
func (a *ClauseAnalysis) PersistedIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]string, 0, len(a.persisted))
	for id := range a.persisted {
		ids = append(ids, id)
	}
	return ids
}

// CheckPersisted queries the backend once per document activation for a
// stored clause set. Any failure is treated as "nothing persisted" so the
// user can fall back to a fresh analysis instead of being blocked.
func (a *ClauseAnalysis) CheckPersisted(ctx context.Context) bool {
	a.mu.Lock()
	if a.checked {
		defer a.mu.Unlock()
		return len(a.persisted) > 0
	}
	a.mu.Unlock()

	clauses, err := a.client.GetPersistedClauses(ctx, a.documentID)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checked = true
	if err != nil || len(clauses) == 0 {
		if err != nil && !IsNotFound(err) {
			slog.Warn("persisted-clause check failed, assuming unpersisted",
				"document_id", a.documentID, "error", err)
		}
		return false
	}

	a.clauses = clauses
	for _, clause := range clauses {
		a.persisted[clause.ID] = struct{}{}
	}
	return true
}

// LoadOrAnalyze returns the document's clause set: the stored one when the
// document is persisted, a fresh analysis otherwise.
func (a *ClauseAnalysis) LoadOrAnalyze(ctx context.Context) ([]model.ClauseRecord, error) {
	if a.CheckPersisted(ctx) {
		return a.Clauses(), nil
	}

	clauses, err := a.client.AnalyzeClauses(ctx, a.documentID)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.clauses = clauses
	a.mu.Unlock()
	return a.Clauses(), nil
}

// LoadOrAnalyzeWithRecovery is LoadOrAnalyze with the remediation path for
// missing source text: trigger processing for the document, then retry the
// analysis once. All other failures are reported as-is.
func (a *ClauseAnalysis) LoadOrAnalyzeWithRecovery(ctx context.Context, orch *Orchestrator) ([]model.ClauseRecord, error) {
	clauses, err := a.LoadOrAnalyze(ctx)
	if err == nil || !IsSourceUnavailable(err) {
		return clauses, err
	}

	slog.Info("source text unavailable, triggering processing before retry", "document_id", a.documentID)
	if procErr := orch.Reprocess(ctx, a.documentID); procErr != nil {
		return nil, procErr
	}
	return a.LoadOrAnalyze(ctx)
}

// Clauses returns a copy of the clause list with cached enrichment merged in.
func (a *ClauseAnalysis) Clauses() []model.ClauseRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.ClauseRecord, len(a.clauses))
	copy(out, a.clauses)
	for i := range out {
		if s, ok := a.scenarios[out[i].ID]; ok {
			out[i].Scenarios = s
		}
		if r, ok := a.references[out[i].ID]; ok {
			out[i].LegalReferences = r
		}
	}
	return out
}

// Enrich fetches what-if scenarios and legal references for one clause.
// Results are cached for the lifetime of the analysis session, and an
// in-flight fetch is shared: concurrent callers for the same clause id issue
// at most one set of requests.
func (a *ClauseAnalysis) Enrich(ctx context.Context, clause model.ClauseRecord) ([]model.Scenario, []model.LegalReference, error) {
	a.mu.Lock()
	scenarios, haveScenarios := a.scenarios[clause.ID]
	references, haveReferences := a.references[clause.ID]
	if haveScenarios && haveReferences {
		a.mu.Unlock()
		return scenarios, references, nil
	}
	if waiter, ok := a.inflight[clause.ID]; ok {
		a.mu.Unlock()
		select {
		case <-waiter:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
		a.mu.Lock()
		scenarios, references = a.scenarios[clause.ID], a.references[clause.ID]
		a.mu.Unlock()
		return scenarios, references, nil
	}
	done := make(chan struct{})
	a.inflight[clause.ID] = done
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.inflight, clause.ID)
		a.mu.Unlock()
		close(done)
	}()

	req := EnrichmentRequest{
		ClauseText:   clause.ClauseText,
		DocumentType: a.documentType,
		ClauseType:   clause.Risk,
	}

	var scenarioErr, referenceErr error
	if !haveScenarios {
		scenarios, scenarioErr = a.client.WhatIfScenarios(ctx, req)
		if scenarioErr == nil {
			a.mu.Lock()
			a.scenarios[clause.ID] = scenarios
			a.mu.Unlock()
		}
	}
	if !haveReferences {
		references, referenceErr = a.client.LegalReferences(ctx, req)
		if referenceErr == nil {
			a.mu.Lock()
			a.references[clause.ID] = references
			a.mu.Unlock()
		}
	}

	return scenarios, references, errors.Join(scenarioErr, referenceErr)
}

// EnrichAll enriches every clause that still lacks cached artifacts. A failed
// fetch for one clause never aborts enrichment of its siblings; per-clause
// failures are logged and the successfully enriched set is returned.
func (a *ClauseAnalysis) EnrichAll(ctx context.Context) []model.ClauseRecord {
	clauses := a.Clauses()

	var wg sync.WaitGroup
	for _, clause := range clauses {
		if clause.Scenarios != nil && clause.LegalReferences != nil {
			continue
		}
		wg.Add(1)
		go func(cl model.ClauseRecord) {
			defer wg.Done()
			if _, _, err := a.Enrich(ctx, cl); err != nil {
				slog.Warn("clause enrichment failed", "clause_id", cl.ID, "error", err)
			}
		}(clause)
	}
	wg.Wait()

	return a.Clauses()
}

// Persist stores the full clause set, including cached enrichment. On success
// the persisted-id set is replaced with the server-assigned ids; the returned
// result carries those ids for the undo notification.
func (a *ClauseAnalysis) Persist(ctx context.Context) (*model.PersistResult, error) {
	clauses := a.Clauses()
	if len(clauses) == 0 {
		return nil, &ValidationError{Message: "no clauses to persist"}
	}

	result, err := a.client.PersistClauses(ctx, a.documentID, clauses)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.persisted = make(map[string]struct{}, len(result.Inserted))
	for _, id := range result.Inserted {
		a.persisted[id] = struct{}{}
	}
	// The server assigns fresh ids on insert; adopt them so a later undo can
	// remove the matching local records. Enrichment caches move with them.
	if len(result.Inserted) == len(a.clauses) {
		for i, id := range result.Inserted {
			old := a.clauses[i].ID
			if old == id {
				continue
			}
			if s, ok := a.scenarios[old]; ok {
				a.scenarios[id] = s
				delete(a.scenarios, old)
			}
			if r, ok := a.references[old]; ok {
				a.references[id] = r
				delete(a.references, old)
			}
			a.clauses[i].ID = id
		}
	}
	return result, nil
}

// Undo deletes the given clause ids server-side. Only on success are they
// removed from the local list and the persisted-id set; a partial or failed
// backend call leaves local state untouched.
func (a *ClauseAnalysis) Undo(ctx context.Context, clauseIDs []string) error {
	if len(clauseIDs) == 0 {
		return &ValidationError{Message: "no clause ids to undo"}
	}

	if err := a.client.UndoClauses(ctx, a.documentID, clauseIDs); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	removed := make(map[string]struct{}, len(clauseIDs))
	for _, id := range clauseIDs {
		removed[id] = struct{}{}
		delete(a.persisted, id)
	}
	kept := a.clauses[:0]
	for _, clause := range a.clauses {
		if _, gone := removed[clause.ID]; !gone {
			kept = append(kept, clause)
		}
	}
	a.clauses = kept
	return nil
}
