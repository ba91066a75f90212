package report

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"scamscan/internal/analysis"
	"scamscan/internal/pattern"
	"scamscan/internal/risk"
	"scamscan/internal/secerr"
)

func flaggedAnalysis(addr string, sev pattern.Severity) analysis.ContractAnalysis {
	return analysis.ContractAnalysis{
		Address: addr,
		Status:  analysis.StatusComplete,
		Vulnerabilities: []analysis.Vulnerability{{
			Type:        pattern.CategoryHiddenRedirection,
			Severity:    sev,
			Confidence:  0.75,
			Description: "hard-coded call targets",
			Evidence:    []string{"SELFDESTRUCT with hard-coded beneficiary"},
		}},
		Patterns: &pattern.Comprehensive{
			OverallDetected:    true,
			OverallConfidence:  0.75,
			OverallSeverity:    sev,
			DetectedCategories: []pattern.Category{pattern.CategoryHiddenRedirection},
			Summary:            "Contract exhibits hidden fund redirection and may be a scam.",
		},
		Risk: &risk.Assessment{RiskScore: 0.6, RiskLevel: risk.LevelHigh, Confidence: 0.75},
	}
}

func cleanAnalysis(addr string) analysis.ContractAnalysis {
	return analysis.ContractAnalysis{
		Address:  addr,
		Status:   analysis.StatusComplete,
		Patterns: &pattern.Comprehensive{Summary: "No scam patterns detected."},
		Risk:     &risk.Assessment{RiskLevel: risk.LevelLow},
	}
}

func failedAnalysis(addr string) analysis.ContractAnalysis {
	return analysis.ContractAnalysis{
		Address: addr,
		Status:  analysis.StatusFailed,
		Error:   "bytecode fetch failed: no such host",
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	_, err := Generate(nil, "")
	if err == nil {
		t.Fatal("empty input must be rejected")
	}
	var ve *secerr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %T: %v", err, err)
	}
	if !secerr.IsSecurityError(err) {
		t.Error("validation error should satisfy the security taxonomy")
	}
}

func TestGenerateWarningsAndCategories(t *testing.T) {
	r, err := Generate([]analysis.ContractAnalysis{
		flaggedAnalysis("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", pattern.SeverityCritical),
		cleanAnalysis("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		failedAnalysis("0xcccccccccccccccccccccccccccccccccccccccc"),
	}, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(r.Warnings) != 2 {
		t.Fatalf("got %d warnings, want 2 (flagged + failed): %+v", len(r.Warnings), r.Warnings)
	}
	// Warnings sort by descending level.
	if r.Warnings[0].Level != WarnCritical {
		t.Errorf("critical warning should sort first: %+v", r.Warnings)
	}
	if r.Warnings[0].Category != pattern.CategoryHiddenRedirection {
		t.Errorf("warning should carry the dominant category: %+v", r.Warnings[0])
	}
	if r.Warnings[1].Level != WarnWarning {
		t.Errorf("failed analysis should warn at warning level: %+v", r.Warnings[1])
	}
	if r.Warnings[0].Timestamp.IsZero() {
		t.Error("warning timestamp missing")
	}
	if len(r.DetectedCategories) != 1 || r.DetectedCategories[0] != pattern.CategoryHiddenRedirection {
		t.Errorf("detected categories wrong: %v", r.DetectedCategories)
	}
	if !strings.Contains(r.Summary, "3 contract(s)") ||
		!strings.Contains(r.Summary, "1 flagged") ||
		!strings.Contains(r.Summary, "1 failed") {
		t.Errorf("summary wrong: %q", r.Summary)
	}
	if r.ID == "" || r.ToolVersion == "" {
		t.Error("report identity fields missing")
	}
}

func TestStatistics(t *testing.T) {
	r, err := Generate([]analysis.ContractAnalysis{
		flaggedAnalysis("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", pattern.SeverityHigh),
		cleanAnalysis("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		failedAnalysis("0xcccccccccccccccccccccccccccccccccccccccc"),
	}, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	s := Statistics(r)
	if s.Total != 3 || s.Flagged != 1 || s.Failed != 1 {
		t.Errorf("stats wrong: %+v", s)
	}
	if s.SeverityDistribution["high"] != 1 {
		t.Errorf("severity distribution wrong: %v", s.SeverityDistribution)
	}
	if s.CategoryCounts[pattern.CategoryHiddenRedirection] != 1 {
		t.Errorf("category counts wrong: %v", s.CategoryCounts)
	}
	// Failed analyses carry no risk score; the average covers the two
	// completed ones.
	if s.AverageRiskScore != 0.3 {
		t.Errorf("average risk score = %f, want 0.3", s.AverageRiskScore)
	}
	if s.RiskLevels["high"] != 1 || s.RiskLevels["low"] != 1 {
		t.Errorf("risk level histogram wrong: %v", s.RiskLevels)
	}
	if s.HighRiskCount != 1 {
		t.Errorf("high-risk count = %d, want 1", s.HighRiskCount)
	}
	if s.CompletionRate < 0.66 || s.CompletionRate > 0.67 {
		t.Errorf("completion rate = %f, want 2/3", s.CompletionRate)
	}
}

func TestMarkdownGenerator(t *testing.T) {
	r, err := Generate([]analysis.ContractAnalysis{
		flaggedAnalysis("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", pattern.SeverityCritical),
		failedAnalysis("0xcccccccccccccccccccccccccccccccccccccccc"),
	}, "Honeypot Sweep")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	md, err := NewMarkdownGenerator().Generate(r)
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	for _, want := range []string{
		"# Honeypot Sweep",
		"## Scan Statistics",
		"## Security Warnings",
		"### Contract 0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"#### Risk Assessment",
		"#### Detected Patterns",
		"hidden_redirection",
		"bytecode fetch failed",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestFileStorageSave(t *testing.T) {
	r, err := Generate([]analysis.ContractAnalysis{
		flaggedAnalysis("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", pattern.SeverityHigh),
	}, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	dir := t.TempDir()
	paths, err := NewFileStorage(dir).Save(r, "# rendered\n")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	md, err := os.ReadFile(paths.Markdown)
	if err != nil || string(md) != "# rendered\n" {
		t.Errorf("markdown file wrong: %q err=%v", md, err)
	}

	raw, err := os.ReadFile(paths.JSON)
	if err != nil {
		t.Fatalf("json file: %v", err)
	}
	var round Report
	if err := json.Unmarshal(raw, &round); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if round.ID != r.ID || len(round.Analyses) != 1 {
		t.Errorf("json round trip wrong: %+v", round)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("temp files left behind: %v", entries)
	}
}
