package report

import (
	"fmt"
	"strings"

	"scamscan/internal/pattern"
)

// Generator renders a report into one output format.
type Generator interface {
	Generate(r *Report) (string, error)
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (g *MarkdownGenerator) Generate(r *Report) (string, error) {
	stats := Statistics(r)
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "**Report ID**: %s\n", r.ID)
	fmt.Fprintf(&b, "**Generated**: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Tool Version**: %s\n\n", r.ToolVersion)
	fmt.Fprintf(&b, "%s\n\n", r.Summary)

	b.WriteString("## Scan Statistics\n\n")
	fmt.Fprintf(&b, "- **Total Contracts**: %d\n", stats.Total)
	fmt.Fprintf(&b, "- **Flagged Contracts**: %d\n", stats.Flagged)
	fmt.Fprintf(&b, "- **Failed Analyses**: %d\n\n", stats.Failed)

	if len(stats.SeverityDistribution) > 0 {
		b.WriteString("## Severity Distribution\n\n")
		for _, sev := range []pattern.Severity{
			pattern.SeverityCritical, pattern.SeverityHigh,
			pattern.SeverityMedium, pattern.SeverityLow,
		} {
			if n := stats.SeverityDistribution[sev.String()]; n > 0 {
				fmt.Fprintf(&b, "- %s **%s**: %d\n", severityIcon(sev), sev, n)
			}
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("## Security Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s **[%s]** `%s`: %s\n", levelIcon(w.Level), w.Level, w.Address, w.Message)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Detailed Results\n\n")
	for i := range r.Analyses {
		a := &r.Analyses[i]

		fmt.Fprintf(&b, "### Contract %s\n\n", a.Address)
		if a.Name != "" {
			fmt.Fprintf(&b, "**Name**: %s\n", a.Name)
		}
		fmt.Fprintf(&b, "**Status**: %s\n", a.Status)
		if a.BytecodeSize > 0 {
			fmt.Fprintf(&b, "**Bytecode Size**: %d bytes\n", a.BytecodeSize)
		}
		if a.IsProxy {
			b.WriteString("**Proxy**: minimal proxy pattern, analysis covers the forwarder only\n")
		}
		if a.Error != "" {
			fmt.Fprintf(&b, "**Note**: %s\n", a.Error)
		}
		b.WriteString("\n")

		if a.Risk != nil {
			b.WriteString("#### Risk Assessment\n\n")
			fmt.Fprintf(&b, "- **Risk Level**: %s\n", a.Risk.RiskLevel)
			fmt.Fprintf(&b, "- **Risk Score**: %.2f\n", a.Risk.RiskScore)
			fmt.Fprintf(&b, "- **Confidence**: %.2f\n\n", a.Risk.Confidence)
			if a.Risk.Explanation.Summary != "" {
				fmt.Fprintf(&b, "%s\n\n", a.Risk.Explanation.Summary)
			}
			for _, rec := range a.Risk.Explanation.Recommendations {
				fmt.Fprintf(&b, "> %s\n", rec)
			}
			if len(a.Risk.Explanation.Recommendations) > 0 {
				b.WriteString("\n")
			}
		}

		if len(a.Vulnerabilities) > 0 {
			b.WriteString("#### Detected Patterns\n\n")
			for j, v := range a.Vulnerabilities {
				fmt.Fprintf(&b, "%d. %s **[%s]** %s (confidence %.2f)\n",
					j+1, severityIcon(v.Severity), v.Severity, v.Type, v.Confidence)
				fmt.Fprintf(&b, "   **Description**: %s\n", v.Description)
				for _, ev := range v.Evidence {
					fmt.Fprintf(&b, "   - %s\n", ev)
				}
				b.WriteString("\n")
			}
		}

		if i < len(r.Analyses)-1 {
			b.WriteString("---\n\n")
		}
	}

	return b.String(), nil
}

func levelIcon(l WarningLevel) string {
	switch l {
	case WarnCritical:
		return "🔴"
	case WarnError:
		return "🟠"
	case WarnWarning:
		return "🟡"
	default:
		return "🟢"
	}
}

func severityIcon(s pattern.Severity) string {
	switch s {
	case pattern.SeverityCritical:
		return "🔴"
	case pattern.SeverityHigh:
		return "🟠"
	case pattern.SeverityMedium:
		return "🟡"
	default:
		return "🟢"
	}
}
