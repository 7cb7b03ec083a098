package analysis

import (
	"time"
)

// ID tipe untuk AnalysisRecord
type ID string

// Severity enum (lowercase on the wire)
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityInfo   Severity = "info"
)

// ValidSeverity reports whether s is one of the closed severity set.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

// Confidence marks whether a result came from a full reasoning run or from
// the degraded fallback path.
type Confidence string

const (
	ConfidenceFull     Confidence = "full"
	ConfidenceDegraded Confidence = "degraded"
)

// SourceText is the sourceLabel sentinel for direct text submissions.
const SourceText = "text"

// Finding is one clause-level entry in the analysis.
type Finding struct {
	Icon        string   `json:"icon,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Details     string   `json:"details,omitempty"`
}

// CategoryAssessment scores one contract category (termination, payment, ...).
type CategoryAssessment struct {
	Score   int    `json:"score"`
	Comment string `json:"comment,omitempty"`
}

// Loophole describes an exploitable gap tied to a clause.
type Loophole struct {
	Clause   string   `json:"clause"`
	Risk     string   `json:"risk"`
	Severity Severity `json:"severity"`
}

// NormalizedResult is the only analysis shape ever returned to a caller.
// Invariants: Score in [0,100], Overview non-empty, Analysis never nil.
// Enrichment groups are either well-formed or omitted entirely.
type NormalizedResult struct {
	Score        int                           `json:"score"`
	Overview     string                        `json:"overview"`
	Analysis     []Finding                     `json:"analysis"`
	ContractMeta map[string]string             `json:"contractMeta,omitempty"`
	Categories   map[string]CategoryAssessment `json:"categories,omitempty"`
	RedFlags     []string                      `json:"redFlags,omitempty"`
	Loopholes    []Loophole                    `json:"loopholes,omitempty"`
	Negotiation  map[string]string             `json:"negotiation,omitempty"`
	Confidence   Confidence                    `json:"confidence"`
}

// Aggregate Root: AnalysisRecord
type AnalysisRecord struct {
	ID          ID               `json:"id"`
	CreatedAt   time.Time        `json:"createdAt"`
	SourceLabel string           `json:"sourceLabel"`
	Result      NormalizedResult `json:"analysis"`
}

// Defaults substituted by the normalizer when a field is missing or malformed.
const (
	DefaultScore    = 50
	DefaultOverview = "Contract analysis completed."
)

// FallbackResult is the canned low-confidence result stored when the
// reasoning service fails or returns an unusable reply. The run still
// succeeds; the summary text and Confidence flag signal reduced confidence.
func FallbackResult() NormalizedResult {
	return NormalizedResult{
		Score:    52,
		Overview: "Basic contract analysis completed with reduced confidence. The automated reasoning step was unavailable, so some clauses may need a closer look. A professional legal review is recommended.",
		Analysis: []Finding{
			{
				Icon:        "alert-triangle",
				Title:       "Professional Review Recommended",
				Description: "Automated analysis was incomplete for this document",
				Severity:    SeverityMedium,
				Details:     "The analysis service could not fully process this contract. Please consult a legal professional for a detailed review before signing.",
			},
		},
		Confidence: ConfidenceDegraded,
	}
}
