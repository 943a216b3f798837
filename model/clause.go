package model

// ClauseRecord is a segment of a legal document identified for risk analysis.
// A record is either transient (produced by a fresh analysis call) or persisted
// (loaded from, or stored to, the backend).
type ClauseRecord struct {
	ID              string           `json:"id"`
	ClauseText      string           `json:"clause_text"`
	Risk            string           `json:"risk"` // low, medium, high
	Highlights      []string         `json:"highlights,omitempty"`
	Scenarios       []Scenario       `json:"scenarios,omitempty"`
	LegalReferences []LegalReference `json:"legal_references,omitempty"`
	StartPos        int              `json:"start_pos,omitempty"`
	EndPos          int              `json:"end_pos,omitempty"`
}

// Risk levels
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Scenario is a generated what-if scenario for a clause.
type Scenario struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Likelihood  string `json:"likelihood,omitempty"`
}

// LegalReference is a citation retrieved from the legal knowledge graph.
type LegalReference struct {
	Title     string `json:"title"`
	Citation  string `json:"citation"`
	URL       string `json:"url,omitempty"`
	Relevance string `json:"relevance,omitempty"`
}

// PersistResult is the backend's response to persisting a clause set.
type PersistResult struct {
	Count    int      `json:"count"`
	Inserted []string `json:"inserted"`
}
