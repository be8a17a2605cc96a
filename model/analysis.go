package model

import (
	"fmt"

	"github.com/anthonydaros/ContractAI/pkg/sanitize"
)

// RiskLevel is a closed enum. Any other value coming back from the analysis
// backend is a contract violation and rejects the whole result.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Valid reports whether the value is one of the four known levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// Severity orders risk levels from low (0) to critical (3). Unknown values
// return -1; callers must have validated first.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	}
	return -1
}

// Recommendation is the backend's final verdict, a closed enum.
type Recommendation string

const (
	RecommendSign      Recommendation = "SIGN"
	RecommendNegotiate Recommendation = "NEGOTIATE"
	RecommendDoNotSign Recommendation = "DO_NOT_SIGN"
)

// Valid reports whether the value is one of the three known verdicts.
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendSign, RecommendNegotiate, RecommendDoNotSign:
		return true
	}
	return false
}

// ClauseFinding is one analyzed clause as returned by the backend.
type ClauseFinding struct {
	ClauseID         string    `json:"clause_id"`
	OriginalText     string    `json:"original_text"`
	Topic            string    `json:"topic"`
	RiskLevel        RiskLevel `json:"risk_level"`
	RiskExplanation  string    `json:"risk_explanation"`
	LawReference     string    `json:"law_reference,omitempty"`
	SuggestedRewrite string    `json:"suggested_rewrite,omitempty"`
}

// AnalysisResult is the complete analysis of one contract. Clause order is
// the server-assigned display order and is never re-sorted. TotalIssues is
// reported by the server and is displayed verbatim; it need not equal any
// count derivable from Clauses.
type AnalysisResult struct {
	AnalysisID     string          `json:"analysis_id,omitempty"`
	ContractID     string          `json:"contract_id"`
	ContractName   string          `json:"contract_name"`
	ContractType   string          `json:"contract_type,omitempty"`
	OverallRisk    RiskLevel       `json:"overall_risk"`
	Summary        string          `json:"summary"`
	Clauses        []ClauseFinding `json:"clauses"`
	TotalIssues    int             `json:"total_issues"`
	Recommendation Recommendation  `json:"recommendation"`
	AnalyzedAt     string          `json:"analyzed_at"`
}

// Validate checks the data contract: required fields present, closed enums
// within their value sets, counters non-negative. A failure means the whole
// payload is unusable; partial rendering is not attempted.
func (a *AnalysisResult) Validate() error {
	if a.ContractID == "" {
		return fmt.Errorf("missing required field contract_id")
	}
	if a.ContractName == "" {
		return fmt.Errorf("missing required field contract_name")
	}
	if a.Summary == "" {
		return fmt.Errorf("missing required field summary")
	}
	if a.AnalyzedAt == "" {
		return fmt.Errorf("missing required field analyzed_at")
	}
	if !a.OverallRisk.Valid() {
		return fmt.Errorf("overall_risk %q is not a known risk level", a.OverallRisk)
	}
	if !a.Recommendation.Valid() {
		return fmt.Errorf("recommendation %q is not a known recommendation", a.Recommendation)
	}
	if a.TotalIssues < 0 {
		return fmt.Errorf("total_issues must be non-negative, got %d", a.TotalIssues)
	}

	for i := range a.Clauses {
		if !a.Clauses[i].RiskLevel.Valid() {
			return fmt.Errorf("clause %d: risk_level %q is not a known risk level", i, a.Clauses[i].RiskLevel)
		}
	}

	return nil
}

// Sanitized returns a copy with every free-text field stripped of markup.
// Enum fields are validated elsewhere, not sanitized.
func (a *AnalysisResult) Sanitized() *AnalysisResult {
	out := *a
	out.AnalysisID = sanitize.Text(a.AnalysisID)
	out.ContractID = sanitize.Text(a.ContractID)
	out.ContractName = sanitize.Text(a.ContractName)
	out.ContractType = sanitize.Text(a.ContractType)
	out.Summary = sanitize.Text(a.Summary)
	out.AnalyzedAt = sanitize.Text(a.AnalyzedAt)

	out.Clauses = make([]ClauseFinding, len(a.Clauses))
	for i, c := range a.Clauses {
		out.Clauses[i] = ClauseFinding{
			ClauseID:         sanitize.Text(c.ClauseID),
			OriginalText:     sanitize.Text(c.OriginalText),
			Topic:            sanitize.Text(c.Topic),
			RiskLevel:        c.RiskLevel,
			RiskExplanation:  sanitize.Text(c.RiskExplanation),
			LawReference:     sanitize.Text(c.LawReference),
			SuggestedRewrite: sanitize.Text(c.SuggestedRewrite),
		}
	}

	return &out
}
