// Package ui renders console output for interactive scans: the banner,
// per-contract result lines and the closing summary table.
package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"scamscan/internal/analysis"
	"scamscan/internal/pattern"
	"scamscan/internal/report"
	"scamscan/internal/risk"
	"scamscan/internal/version"
)

var mu sync.Mutex

func PrintBanner() {
	banner := `

 ___  ___ __ _ _ __ ___  ___  ___ __ _ _ __
/ __|/ __/ _` + "`" + ` | '_ ` + "`" + ` _ \/ __|/ __/ _` + "`" + ` | '_ \
\__ \ (_| (_| | | | | | \__ \ (_| (_| | | | |
|___/\___\__,_|_| |_| |_|___/\___\__,_|_| |_|
`
	color.Cyan(banner)
	color.New(color.Faint).Printf("  %s - Static scam-pattern detection for EVM bytecode\n\n", version.Version)
}

// PrintResult writes one line per finished contract, colored by risk
// level.
func PrintResult(a *analysis.ContractAnalysis) {
	mu.Lock()
	defer mu.Unlock()

	if a.Failed() {
		color.New(color.FgYellow).Printf("[SKIP] %s: %s\n", a.Address, a.Error)
		return
	}
	if !a.Flagged() {
		color.New(color.FgGreen).Printf("[CLEAN] %s\n", a.Address)
		return
	}

	level := risk.LevelLow
	score := 0.0
	if a.Risk != nil {
		level = a.Risk.RiskLevel
		score = a.Risk.RiskScore
	}
	levelColor(level).Printf("[%s] %s score=%.2f | %s\n",
		levelTag(level), a.Address, score, a.Patterns.Summary)
}

func levelTag(l risk.Level) string {
	switch l {
	case risk.LevelCritical:
		return "CRITICAL"
	case risk.LevelHigh:
		return "HIGH"
	case risk.LevelMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func levelColor(l risk.Level) *color.Color {
	switch l {
	case risk.LevelCritical:
		return color.New(color.FgRed, color.Bold)
	case risk.LevelHigh:
		return color.New(color.FgRed)
	case risk.LevelMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

// PrintSummary renders the closing per-contract table and the severity
// totals.
func PrintSummary(r *report.Report) {
	mu.Lock()
	defer mu.Unlock()

	fmt.Println()
	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgWhite).SprintfFunc()

	tbl := table.New("Contract", "Status", "Risk", "Score", "Patterns")
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt).WithWriter(os.Stdout)

	for i := range r.Analyses {
		a := &r.Analyses[i]
		status := string(a.Status)
		level, score := "-", "-"
		patterns := 0
		if a.Risk != nil {
			level = string(a.Risk.RiskLevel)
			score = fmt.Sprintf("%.2f", a.Risk.RiskScore)
		}
		patterns = len(a.Vulnerabilities)
		tbl.AddRow(a.Address, status, level, score, patterns)
	}
	tbl.Print()

	fmt.Println()
	stats := report.Statistics(r)
	fmt.Printf("Total: %d  Flagged: %d  Failed: %d\n", stats.Total, stats.Flagged, stats.Failed)
	for _, sev := range []pattern.Severity{
		pattern.SeverityCritical, pattern.SeverityHigh,
		pattern.SeverityMedium, pattern.SeverityLow,
	} {
		if n := stats.SeverityDistribution[sev.String()]; n > 0 {
			sevColor(sev).Printf("  %s: %d\n", sev, n)
		}
	}
}

func sevColor(s pattern.Severity) *color.Color {
	switch s {
	case pattern.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case pattern.SeverityHigh:
		return color.New(color.FgRed)
	case pattern.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
