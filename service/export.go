package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/anthonydaros/ContractAI/model"
)

// ExportService rasterizes a sanitized analysis result into a downloadable
// PDF report. Rendering is a one-shot side effect; it never touches session
// state.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// riskColor returns an RGB accent per risk level.
func riskColor(level model.RiskLevel) (r, g, b int) {
	switch level {
	case model.RiskLow:
		return 46, 125, 50
	case model.RiskMedium:
		return 245, 124, 0
	case model.RiskHigh:
		return 211, 47, 47
	case model.RiskCritical:
		return 136, 14, 79
	}
	return 66, 66, 66
}

// RenderPDF lays out the report: header, overall verdict, summary, then one
// block per clause in server order.
func (s *ExportService) RenderPDF(result *model.AnalysisResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Contract Risk Report", false)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, "Contract Risk Report", "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, result.ContractName, "", "L", false)
	if result.ContractType != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, result.ContractType, "", "L", false)
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 5, "Analyzed at "+result.AnalyzedAt, "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// Verdict block
	r, g, b := riskColor(result.OverallRisk)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(r, g, b)
	pdf.MultiCell(0, 6, fmt.Sprintf("Overall risk: %s", strings.ToUpper(string(result.OverallRisk))), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 6, fmt.Sprintf("Recommendation: %s", recommendationLabel(result.Recommendation)), "", "L", false)
	pdf.MultiCell(0, 6, fmt.Sprintf("Issues found: %d", result.TotalIssues), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, result.Summary, "", "L", false)
	pdf.Ln(4)

	for _, clause := range result.Clauses {
		s.renderClause(pdf, clause)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *ExportService) renderClause(pdf *gofpdf.Fpdf, clause model.ClauseFinding) {
	r, g, b := riskColor(clause.RiskLevel)

	pdf.SetFont("Helvetica", "B", 11)
	heading := clause.ClauseID
	if clause.Topic != "" {
		heading += " - " + clause.Topic
	}
	pdf.MultiCell(0, 6, heading, "", "L", false)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(r, g, b)
	pdf.MultiCell(0, 5, "Risk: "+string(clause.RiskLevel), "", "L", false)
	pdf.SetTextColor(0, 0, 0)

	if clause.OriginalText != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, clause.OriginalText, "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 5, clause.RiskExplanation, "", "L", false)

	if clause.LawReference != "" {
		pdf.MultiCell(0, 5, "Reference: "+clause.LawReference, "", "L", false)
	}
	if clause.SuggestedRewrite != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.MultiCell(0, 5, "Suggested rewrite:", "", "L", false)
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, clause.SuggestedRewrite, "", "L", false)
	}

	pdf.Ln(3)
}

func recommendationLabel(rec model.Recommendation) string {
	switch rec {
	case model.RecommendSign:
		return "Sign"
	case model.RecommendNegotiate:
		return "Negotiate"
	case model.RecommendDoNotSign:
		return "Do not sign"
	}
	return string(rec)
}
