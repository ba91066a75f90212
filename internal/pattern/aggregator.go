package pattern

import (
	"fmt"
	"strings"
)

// Options select which detectors run. Include, when non-empty, names
// the exact set; otherwise all detectors run minus any excluded.
type Options struct {
	Include []Category
	Exclude []Category
}

// Comprehensive is the combined outcome of a detector sweep.
type Comprehensive struct {
	Results            []Result   `json:"results"`
	OverallDetected    bool       `json:"overall_detected"`
	OverallConfidence  float64    `json:"overall_confidence"`
	OverallSeverity    Severity   `json:"overall_severity"`
	OverallRiskScore   float64    `json:"overall_risk_score"`
	DetectedCategories []Category `json:"detected_categories,omitempty"`
	Summary            string     `json:"summary"`
}

// Aggregator runs a fixed detector set over one input. Detectors are
// pure and independent; they run sequentially as a simplicity choice,
// not a correctness requirement.
type Aggregator struct {
	detectors []Detector
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		detectors: []Detector{
			DeceptiveEvents{},
			HiddenRedirection{},
			FakeBalance{},
			NonFunctionalTransfer{},
		},
	}
}

func (a *Aggregator) active(opts Options) []Detector {
	if len(opts.Include) > 0 {
		include := make(map[Category]bool, len(opts.Include))
		for _, c := range opts.Include {
			include[c] = true
		}
		var out []Detector
		for _, d := range a.detectors {
			if include[d.Category()] {
				out = append(out, d)
			}
		}
		return out
	}

	exclude := make(map[Category]bool, len(opts.Exclude))
	for _, c := range opts.Exclude {
		exclude[c] = true
	}
	var out []Detector
	for _, d := range a.detectors {
		if !exclude[d.Category()] {
			out = append(out, d)
		}
	}
	return out
}

// DetectAll runs the selected detectors and aggregates their results.
func (a *Aggregator) DetectAll(in Input, opts Options) Comprehensive {
	detectors := a.active(opts)

	results := make([]Result, 0, len(detectors))
	var detected []Result
	var categories []Category
	for _, d := range detectors {
		r := d.Detect(in)
		results = append(results, r)
		if r.Detected {
			detected = append(detected, r)
			categories = append(categories, r.Category)
		}
	}

	comp := Comprehensive{
		Results:            results,
		DetectedCategories: categories,
		OverallSeverity:    SeverityLow,
		Summary:            "No scam patterns detected.",
	}
	if len(detected) == 0 {
		return comp
	}

	comp.OverallDetected = true

	meanConf := 0.0
	for _, r := range detected {
		meanConf += r.Confidence
	}
	meanConf /= float64(len(detected))

	comp.OverallConfidence = meanConf
	if len(detected) > 1 {
		comp.OverallConfidence = minFloat(meanConf+0.1, 1)
	}

	maxSev := SeverityLow
	for _, r := range detected {
		if r.Severity > maxSev {
			maxSev = r.Severity
		}
	}
	if len(detected) > 1 && maxSev < SeverityCritical {
		maxSev++
	}
	comp.OverallSeverity = maxSev

	// Legacy 0-100 scale kept for downstream consumers.
	score := 60*meanConf + severityPoints(maxSev)
	if len(detected) > 1 {
		score += 10
	}
	if hasCategory(categories, CategoryHiddenRedirection) && hasCategory(categories, CategoryDeceptiveEvents) {
		score += 15
	}
	comp.OverallRiskScore = minFloat(score, 100)

	comp.Summary = summarize(categories)
	return comp
}

func severityPoints(s Severity) float64 {
	switch s {
	case SeverityMedium:
		return 10
	case SeverityHigh:
		return 20
	case SeverityCritical:
		return 30
	default:
		return 0
	}
}

func hasCategory(categories []Category, want Category) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}

var categoryLabels = map[Category]string{
	CategoryDeceptiveEvents:       "deceptive events",
	CategoryHiddenRedirection:     "hidden fund redirection",
	CategoryFakeBalance:           "fabricated balances",
	CategoryNonFunctionalTransfer: "non-functional transfers",
}

func summarize(categories []Category) string {
	labels := make([]string, len(categories))
	for i, c := range categories {
		labels[i] = categoryLabels[c]
	}
	list := strings.Join(labels, ", ")

	switch {
	case len(categories) >= 3:
		return fmt.Sprintf("Contract exhibits %s and is highly likely to be a scam.", list)
	case len(categories) == 2:
		return fmt.Sprintf("Contract exhibits %s and is likely a scam.", list)
	default:
		return fmt.Sprintf("Contract exhibits %s and may be a scam.", list)
	}
}
