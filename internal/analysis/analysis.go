// Package analysis runs the full per-contract pipeline: bytecode
// retrieval, pattern detection, aggregation and risk assessment. It is
// the only package that stitches the stages together; each stage stays
// independently testable.
package analysis

import (
	"time"

	"scamscan/internal/pattern"
	"scamscan/internal/risk"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
	StatusFailed     Status = "failed"
)

// Target identifies one contract to analyze. ABI is optional; when
// present the descriptor detectors run alongside the bytecode ones.
type Target struct {
	Address string `json:"address" yaml:"address"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	ABI     string `json:"abi,omitempty" yaml:"abi,omitempty"`
}

// Vulnerability is the report-facing projection of one detected
// pattern.
type Vulnerability struct {
	Type        pattern.Category `json:"type"`
	Severity    pattern.Severity `json:"severity"`
	Confidence  float64          `json:"confidence"`
	Description string           `json:"description"`
	Evidence    []string         `json:"evidence,omitempty"`
}

// ContractAnalysis is the complete outcome for one target.
type ContractAnalysis struct {
	Address         string                 `json:"address"`
	Name            string                 `json:"name,omitempty"`
	Status          Status                 `json:"status"`
	StartedAt       time.Time              `json:"started_at"`
	CompletedAt     time.Time              `json:"completed_at"`
	Error           string                 `json:"error,omitempty"`
	BytecodeSize    int                    `json:"bytecode_size"`
	IsProxy         bool                   `json:"is_proxy,omitempty"`
	Vulnerabilities []Vulnerability        `json:"vulnerabilities,omitempty"`
	Patterns        *pattern.Comprehensive `json:"patterns,omitempty"`
	Risk            *risk.Assessment       `json:"risk,omitempty"`
}

// Failed reports whether the pipeline could not complete for this
// contract.
func (a *ContractAnalysis) Failed() bool { return a.Status == StatusFailed }

// Flagged reports whether at least one pattern was detected.
func (a *ContractAnalysis) Flagged() bool {
	return a.Patterns != nil && a.Patterns.OverallDetected
}

// MaxSeverity returns the highest severity among detected
// vulnerabilities, and false when nothing was detected.
func (a *ContractAnalysis) MaxSeverity() (pattern.Severity, bool) {
	if len(a.Vulnerabilities) == 0 {
		return pattern.SeverityLow, false
	}
	max := pattern.SeverityLow
	for _, v := range a.Vulnerabilities {
		if v.Severity > max {
			max = v.Severity
		}
	}
	return max, true
}
