// Package risk converts pattern results into a single bounded risk
// score with a level, a per-pattern breakdown and a human-readable
// rationale. All computation is pure and deterministic: identical
// inputs yield bit-identical assessments.
package risk

import (
	"fmt"
	"sort"
	"strings"

	"scamscan/internal/pattern"
)

type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Fixed empirical constants, preserved as-is rather than re-derived.
const (
	defaultWeight        = 0.1
	multiDetectionBonus  = 0.1
	comboBonus           = 0.15
	highConfidenceBonus  = 0.05
	bonusCap             = 0.3
	lowConfidencePenalty = 0.05
	thinEvidencePenalty  = 0.03
	penaltyCap           = 0.2
)

// Config carries the scoring parameters. Zero value is not usable;
// start from DefaultConfig and override.
type Config struct {
	Weights             map[pattern.Category]float64
	SeverityMultipliers map[pattern.Severity]float64
	EnableBonus         bool
	EnablePenalty       bool
}

func DefaultConfig() *Config {
	return &Config{
		Weights: map[pattern.Category]float64{
			pattern.CategoryDeceptiveEvents:       0.25,
			pattern.CategoryHiddenRedirection:     0.35,
			pattern.CategoryFakeBalance:           0.20,
			pattern.CategoryNonFunctionalTransfer: 0.30,
		},
		SeverityMultipliers: map[pattern.Severity]float64{
			pattern.SeverityLow:      0.8,
			pattern.SeverityMedium:   1.0,
			pattern.SeverityHigh:     1.2,
			pattern.SeverityCritical: 1.5,
		},
		EnableBonus:   true,
		EnablePenalty: true,
	}
}

// Pattern pairs whose joint presence marks a deliberate scam design
// rather than sloppy code.
var dangerousCombinations = [][2]pattern.Category{
	{pattern.CategoryHiddenRedirection, pattern.CategoryDeceptiveEvents},
	{pattern.CategoryFakeBalance, pattern.CategoryNonFunctionalTransfer},
	{pattern.CategoryDeceptiveEvents, pattern.CategoryNonFunctionalTransfer},
}

// Contribution is one pattern's share of the base score.
type Contribution struct {
	Category     pattern.Category `json:"category"`
	Detected     bool             `json:"detected"`
	Weight       float64          `json:"weight"`
	Confidence   float64          `json:"confidence"`
	Severity     pattern.Severity `json:"severity"`
	Contribution float64          `json:"contribution"`
}

type Breakdown struct {
	Patterns     []Contribution `json:"patterns"`
	BaseScore    float64        `json:"base_score"`
	BonusScore   float64        `json:"bonus_score"`
	PenaltyScore float64        `json:"penalty_score"`
	FinalScore   float64        `json:"final_score"`
}

type Explanation struct {
	Summary           string   `json:"summary"`
	RiskFactors       []string `json:"risk_factors,omitempty"`
	MitigatingFactors []string `json:"mitigating_factors,omitempty"`
	Recommendations   []string `json:"recommendations,omitempty"`
	TechnicalDetails  string   `json:"technical_details"`
}

type Assessment struct {
	RiskScore   float64     `json:"risk_score"`
	RiskLevel   Level       `json:"risk_level"`
	Confidence  float64     `json:"confidence"`
	Breakdown   Breakdown   `json:"breakdown"`
	Explanation Explanation `json:"explanation"`
}

// Assess scores the supplied pattern results. A nil cfg uses the
// defaults. An empty input yields the zero score at level low.
func Assess(results []pattern.Result, cfg *Config) Assessment {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Deterministic ordering regardless of how the caller assembled
	// the slice.
	ordered := make([]pattern.Result, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Category < ordered[j].Category })

	var (
		weightSum     float64
		weightedSum   float64
		contributions []Contribution
		detected      []pattern.Result
	)
	for _, r := range ordered {
		w, ok := cfg.Weights[r.Category]
		if !ok {
			w = defaultWeight
		}
		mult, ok := cfg.SeverityMultipliers[r.Severity]
		if !ok {
			mult = 1.0
		}
		c := w * r.Confidence * mult
		weightSum += w
		weightedSum += c
		contributions = append(contributions, Contribution{
			Category:     r.Category,
			Detected:     r.Detected,
			Weight:       w,
			Confidence:   r.Confidence,
			Severity:     r.Severity,
			Contribution: c,
		})
		if r.Detected {
			detected = append(detected, r)
		}
	}

	base := 0.0
	if weightSum > 0 {
		base = clamp01(weightedSum / weightSum)
	}

	meanDetectedConf := 0.0
	for _, r := range detected {
		meanDetectedConf += r.Confidence
	}
	if len(detected) > 0 {
		meanDetectedConf /= float64(len(detected))
	}

	bonus := 0.0
	matchedCombos := matchedCombinations(detected)
	if cfg.EnableBonus && len(detected) > 0 {
		if len(detected) > 1 {
			bonus += multiDetectionBonus * float64(len(detected)-1)
		}
		bonus += comboBonus * float64(len(matchedCombos))
		if meanDetectedConf > 0.8 {
			bonus += highConfidenceBonus
		}
		if bonus > bonusCap {
			bonus = bonusCap
		}
	}

	penalty := 0.0
	if cfg.EnablePenalty {
		for _, r := range detected {
			if r.Confidence < 0.4 {
				penalty += lowConfidencePenalty
			}
			if len(r.Evidence) < 2 {
				penalty += thinEvidencePenalty
			}
		}
		if penalty > penaltyCap {
			penalty = penaltyCap
		}
	}

	final := clamp01(base + bonus - penalty)
	level := levelFor(final)

	return Assessment{
		RiskScore:  final,
		RiskLevel:  level,
		Confidence: meanDetectedConf,
		Breakdown: Breakdown{
			Patterns:     contributions,
			BaseScore:    base,
			BonusScore:   bonus,
			PenaltyScore: penalty,
			FinalScore:   final,
		},
		Explanation: explain(final, level, detected, ordered, matchedCombos),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// levelFor is a total, order-preserving step function; boundaries are
// inclusive on the lower end.
func levelFor(score float64) Level {
	switch {
	case score >= 0.75:
		return LevelCritical
	case score >= 0.5:
		return LevelHigh
	case score >= 0.25:
		return LevelMedium
	default:
		return LevelLow
	}
}

func matchedCombinations(detected []pattern.Result) [][2]pattern.Category {
	present := make(map[pattern.Category]bool, len(detected))
	for _, r := range detected {
		present[r.Category] = true
	}
	var out [][2]pattern.Category
	for _, combo := range dangerousCombinations {
		if present[combo[0]] && present[combo[1]] {
			out = append(out, combo)
		}
	}
	return out
}

var categoryNames = map[pattern.Category]string{
	pattern.CategoryDeceptiveEvents:       "deceptive events",
	pattern.CategoryHiddenRedirection:     "hidden fund redirection",
	pattern.CategoryFakeBalance:           "fabricated balances",
	pattern.CategoryNonFunctionalTransfer: "non-functional transfers",
}

var levelRecommendations = map[Level][]string{
	LevelCritical: {
		"Do not interact with this contract",
		"Report the contract to relevant authorities and tracking services",
		"Warn others who may be exposed to it",
	},
	LevelHigh: {
		"Exercise extreme caution before any interaction",
		"Do not transfer funds to this contract",
		"Seek an expert review before proceeding",
	},
	LevelMedium: {
		"Proceed cautiously and only with amounts you can afford to lose",
		"Verify behavior with small test transactions first",
	},
	LevelLow: {
		"Contract appears legitimate based on analyzed patterns",
		"Still verify the source code and team before significant use",
	},
}

var patternRecommendations = map[pattern.Category]string{
	pattern.CategoryHiddenRedirection:     "This contract may redirect funds to unauthorized addresses",
	pattern.CategoryDeceptiveEvents:       "Emitted events may not correspond to real state changes",
	pattern.CategoryFakeBalance:           "Displayed balances may be fabricated and unwithdrawable",
	pattern.CategoryNonFunctionalTransfer: "Token transfers may silently do nothing",
}

func explain(score float64, level Level, detected, all []pattern.Result, combos [][2]pattern.Category) Explanation {
	var riskFactors []string
	for _, r := range detected {
		riskFactors = append(riskFactors, fmt.Sprintf(
			"%s detected with %.0f%% confidence (%s severity)",
			categoryNames[r.Category], r.Confidence*100, r.Severity))
	}
	for _, combo := range combos {
		riskFactors = append(riskFactors, fmt.Sprintf(
			"dangerous combination: %s together with %s",
			categoryNames[combo[0]], categoryNames[combo[1]]))
	}

	var mitigating []string
	for _, r := range all {
		if !r.Detected {
			mitigating = append(mitigating, fmt.Sprintf("no %s pattern found", categoryNames[r.Category]))
		} else if r.Confidence < 0.4 {
			mitigating = append(mitigating, fmt.Sprintf(
				"%s detection has low confidence (%.0f%%)", categoryNames[r.Category], r.Confidence*100))
		}
	}

	recommendations := dedupe(append(append([]string{}, levelRecommendations[level]...), func() []string {
		var extra []string
		for _, r := range detected {
			extra = append(extra, patternRecommendations[r.Category])
		}
		return extra
	}()...))

	summary := fmt.Sprintf("Risk level %s with a score of %.2f across %d detected pattern(s).",
		level, score, len(detected))

	var details strings.Builder
	details.WriteString("Per-pattern analysis:\n")
	for _, r := range all {
		fmt.Fprintf(&details, "- %s: detected=%t confidence=%.2f severity=%s evidence=%d\n",
			r.Category, r.Detected, r.Confidence, r.Severity, len(r.Evidence))
	}

	return Explanation{
		Summary:           summary,
		RiskFactors:       riskFactors,
		MitigatingFactors: mitigating,
		Recommendations:   recommendations,
		TechnicalDetails:  details.String(),
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
