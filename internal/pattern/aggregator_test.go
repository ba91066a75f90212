package pattern

import (
	"strings"
	"testing"
)

func TestDetectAllEscalatesCombinedSeverity(t *testing.T) {
	agg := NewAggregator()
	in := DescriptorInput(mustParse(t, viewTransferABI))

	de := DeceptiveEvents{}.Detect(in)
	nft := NonFunctionalTransfer{}.Detect(in)
	if !de.Detected || !nft.Detected {
		t.Fatalf("scenario preconditions: de=%v nft=%v", de.Detected, nft.Detected)
	}

	comp := agg.DetectAll(in, Options{})
	if !comp.OverallDetected {
		t.Fatal("combined detection missing")
	}
	maxAlone := de.Severity
	if nft.Severity > maxAlone {
		maxAlone = nft.Severity
	}
	if comp.OverallSeverity <= maxAlone {
		t.Errorf("overall severity %s should exceed the strongest single detector %s",
			comp.OverallSeverity, maxAlone)
	}
}

func TestDetectAllConfidenceBonusAndCaps(t *testing.T) {
	agg := NewAggregator()
	comp := agg.DetectAll(DescriptorInput(mustParse(t, viewTransferABI)), Options{})

	if comp.OverallConfidence < 0 || comp.OverallConfidence > 1 {
		t.Errorf("overall confidence out of bounds: %f", comp.OverallConfidence)
	}
	if comp.OverallRiskScore < 0 || comp.OverallRiskScore > 100 {
		t.Errorf("overall risk score out of bounds: %f", comp.OverallRiskScore)
	}
	if len(comp.DetectedCategories) > 1 {
		mean := 0.0
		n := 0
		for _, r := range comp.Results {
			if r.Detected {
				mean += r.Confidence
				n++
			}
		}
		mean /= float64(n)
		want := mean + 0.1
		if want > 1 {
			want = 1
		}
		if comp.OverallConfidence != want {
			t.Errorf("multi-pattern bonus not applied: got %f want %f", comp.OverallConfidence, want)
		}
	}
}

func TestDetectAllIncludeExclude(t *testing.T) {
	agg := NewAggregator()
	in := DescriptorInput(mustParse(t, viewTransferABI))

	only := agg.DetectAll(in, Options{Include: []Category{CategoryFakeBalance}})
	if len(only.Results) != 1 || only.Results[0].Category != CategoryFakeBalance {
		t.Errorf("include set not honored: %+v", only.Results)
	}

	without := agg.DetectAll(in, Options{Exclude: []Category{CategoryNonFunctionalTransfer}})
	for _, r := range without.Results {
		if r.Category == CategoryNonFunctionalTransfer {
			t.Error("excluded detector still ran")
		}
	}
	if len(without.Results) != 3 {
		t.Errorf("got %d results, want 3", len(without.Results))
	}
}

func TestDetectAllSummaryEscalation(t *testing.T) {
	agg := NewAggregator()

	comp := agg.DetectAll(DescriptorInput(mustParse(t, viewTransferABI)), Options{})
	switch len(comp.DetectedCategories) {
	case 1:
		if !strings.Contains(comp.Summary, "may be a scam") {
			t.Errorf("single-pattern summary wrong: %q", comp.Summary)
		}
	case 2:
		if !strings.Contains(comp.Summary, "likely a scam") {
			t.Errorf("two-pattern summary wrong: %q", comp.Summary)
		}
	default:
		if !strings.Contains(comp.Summary, "highly likely") {
			t.Errorf("multi-pattern summary wrong: %q", comp.Summary)
		}
	}

	clean := agg.DetectAll(Input{}, Options{})
	if clean.OverallDetected || clean.Summary != "No scam patterns detected." {
		t.Errorf("neutral sweep wrong: %+v", clean)
	}
}

func TestDetectAllDangerousComboScore(t *testing.T) {
	agg := NewAggregator()
	// Descriptor side triggers deceptive events; bytecode side triggers
	// hidden redirection.
	in := CombinedInput(mustParse(t, viewTransferABI), "0x73deadbeefdeadbeefdeadbeefdeadbeefdeadbeefff")

	comp := agg.DetectAll(in, Options{})
	if !hasCategory(comp.DetectedCategories, CategoryHiddenRedirection) ||
		!hasCategory(comp.DetectedCategories, CategoryDeceptiveEvents) {
		t.Fatalf("combo preconditions not met: %v", comp.DetectedCategories)
	}
	if comp.OverallRiskScore < 85 {
		t.Errorf("dangerous combination should score high, got %f", comp.OverallRiskScore)
	}
	if comp.OverallRiskScore > 100 {
		t.Errorf("risk score must cap at 100, got %f", comp.OverallRiskScore)
	}
}
