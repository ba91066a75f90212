// Package report turns finished analyses into user-facing artifacts: a
// structured report object, a markdown rendering and durable files.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"scamscan/internal/analysis"
	"scamscan/internal/pattern"
	"scamscan/internal/risk"
	"scamscan/internal/secerr"
	"scamscan/internal/version"
)

// WarningLevel orders alerts for display; it is coarser than pattern
// severity and also covers non-detection conditions like failed
// analyses.
type WarningLevel int

const (
	WarnInfo WarningLevel = iota
	WarnWarning
	WarnError
	WarnCritical
)

func (l WarningLevel) String() string {
	switch l {
	case WarnWarning:
		return "warning"
	case WarnError:
		return "error"
	case WarnCritical:
		return "critical"
	default:
		return "info"
	}
}

func (l WarningLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *WarningLevel) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "warning":
		*l = WarnWarning
	case "error":
		*l = WarnError
	case "critical":
		*l = WarnCritical
	default:
		*l = WarnInfo
	}
	return nil
}

// SecurityWarning is one actionable alert distilled from the analyses.
type SecurityWarning struct {
	Level     WarningLevel     `json:"level"`
	Category  pattern.Category `json:"category,omitempty"`
	Address   string           `json:"address,omitempty"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}

// warnLevelFor maps a detection severity onto the alert scale.
func warnLevelFor(sev pattern.Severity) WarningLevel {
	switch sev {
	case pattern.SeverityCritical:
		return WarnCritical
	case pattern.SeverityHigh:
		return WarnError
	case pattern.SeverityMedium:
		return WarnWarning
	default:
		return WarnInfo
	}
}

type Report struct {
	ID                 string                      `json:"id"`
	Title              string                      `json:"title"`
	Summary            string                      `json:"summary"`
	Analyses           []analysis.ContractAnalysis `json:"analyses"`
	Warnings           []SecurityWarning           `json:"warnings,omitempty"`
	DetectedCategories []pattern.Category          `json:"detected_categories,omitempty"`
	GeneratedAt        time.Time                   `json:"generated_at"`
	ToolVersion        string                      `json:"tool_version"`
}

// Generate builds a report from completed analyses. An empty input set
// is a caller error, not an empty report.
func Generate(analyses []analysis.ContractAnalysis, title string) (*Report, error) {
	if len(analyses) == 0 {
		return nil, &secerr.ValidationError{
			Field:  "analyses",
			Reason: "report requires at least one analysis",
		}
	}
	if title == "" {
		title = "Smart Contract Scam Analysis"
	}

	now := time.Now()
	r := &Report{
		ID:          fmt.Sprintf("scan-%d", now.UnixNano()),
		Title:       title,
		Analyses:    analyses,
		GeneratedAt: now,
		ToolVersion: version.Version,
	}

	categories := make(map[pattern.Category]bool)
	flagged := 0
	failed := 0
	for i := range analyses {
		a := &analyses[i]

		if a.Failed() {
			failed++
			r.Warnings = append(r.Warnings, SecurityWarning{
				Level:     WarnWarning,
				Address:   a.Address,
				Message:   fmt.Sprintf("analysis failed: %s", a.Error),
				Timestamp: now,
			})
			continue
		}
		if !a.Flagged() {
			continue
		}
		flagged++
		topCategory := pattern.Category("")
		topConf := -1.0
		for _, v := range a.Vulnerabilities {
			categories[v.Type] = true
			if v.Confidence > topConf {
				topCategory, topConf = v.Type, v.Confidence
			}
		}
		if sev, ok := a.MaxSeverity(); ok {
			msg := a.Patterns.Summary
			if sev < pattern.SeverityHigh {
				msg = fmt.Sprintf("suspicious patterns detected: %s", msg)
			}
			r.Warnings = append(r.Warnings, SecurityWarning{
				Level:     warnLevelFor(sev),
				Category:  topCategory,
				Address:   a.Address,
				Message:   msg,
				Timestamp: now,
			})
		}
	}

	for _, c := range pattern.Categories() {
		if categories[c] {
			r.DetectedCategories = append(r.DetectedCategories, c)
		}
	}

	sort.SliceStable(r.Warnings, func(i, j int) bool {
		return r.Warnings[i].Level > r.Warnings[j].Level
	})

	r.Summary = fmt.Sprintf("Analyzed %d contract(s): %d flagged, %d failed.",
		len(analyses), flagged, failed)
	return r, nil
}

// Stats is a pure projection over a report; it never mutates it.
type Stats struct {
	Total                int                      `json:"total"`
	Flagged              int                      `json:"flagged"`
	Failed               int                      `json:"failed"`
	CompletionRate       float64                  `json:"completion_rate"`
	SeverityDistribution map[string]int           `json:"severity_distribution"`
	RiskLevels           map[string]int           `json:"risk_levels"`
	HighRiskCount        int                      `json:"high_risk_count"`
	CategoryCounts       map[pattern.Category]int `json:"category_counts"`
	AverageRiskScore     float64                  `json:"average_risk_score"`
}

func Statistics(r *Report) Stats {
	s := Stats{
		Total:                len(r.Analyses),
		SeverityDistribution: make(map[string]int),
		RiskLevels:           make(map[string]int),
		CategoryCounts:       make(map[pattern.Category]int),
	}

	scored := 0
	scoreSum := 0.0
	for i := range r.Analyses {
		a := &r.Analyses[i]
		if a.Failed() {
			s.Failed++
			continue
		}
		if a.Flagged() {
			s.Flagged++
		}
		for _, v := range a.Vulnerabilities {
			s.SeverityDistribution[v.Severity.String()]++
			s.CategoryCounts[v.Type]++
		}
		if a.Risk != nil {
			scored++
			scoreSum += a.Risk.RiskScore
			s.RiskLevels[string(a.Risk.RiskLevel)]++
			if a.Risk.RiskLevel == risk.LevelHigh || a.Risk.RiskLevel == risk.LevelCritical {
				s.HighRiskCount++
			}
		}
	}
	if scored > 0 {
		s.AverageRiskScore = scoreSum / float64(scored)
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.Total-s.Failed) / float64(s.Total)
	}
	return s
}
