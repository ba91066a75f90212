// Package pattern implements the four scam-pattern detectors and their
// aggregator. Detectors are pure functions: they perform no I/O, share
// no state, and never fail — malformed or inapplicable input degrades
// to a not-detected result with the reason recorded in metadata.
package pattern

import (
	"encoding/json"

	"scamscan/internal/bytecode"
	"scamscan/internal/descriptor"
)

type Category string

const (
	CategoryDeceptiveEvents       Category = "deceptive_events"
	CategoryHiddenRedirection     Category = "hidden_redirection"
	CategoryFakeBalance           Category = "fake_balance"
	CategoryNonFunctionalTransfer Category = "non_functional_transfer"
)

// Categories lists every detector category in canonical order.
func Categories() []Category {
	return []Category{
		CategoryDeceptiveEvents,
		CategoryHiddenRedirection,
		CategoryFakeBalance,
		CategoryNonFunctionalTransfer,
	}
}

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "low"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "medium":
		*s = SeverityMedium
	case "high":
		*s = SeverityHigh
	case "critical":
		*s = SeverityCritical
	default:
		*s = SeverityLow
	}
	return nil
}

// Result is the immutable outcome of one detector run.
type Result struct {
	Detected    bool              `json:"detected"`
	Confidence  float64           `json:"confidence"`
	Category    Category          `json:"category"`
	Description string            `json:"description"`
	Evidence    []string          `json:"evidence,omitempty"`
	Severity    Severity          `json:"severity"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// notApplicable is the neutral sentinel detectors return instead of an
// error when the input variant does not apply to them.
func notApplicable(cat Category, reason string) Result {
	return Result{
		Category: cat,
		Severity: SeverityLow,
		Metadata: map[string]string{"reason": reason},
	}
}

// Input is the tagged union resolved once at the pipeline boundary:
// bytecode, an interface descriptor, or both. Each detector declares
// which variant it consumes by probing the accessors.
type Input struct {
	code     bytecode.Bytecode
	hasCode  bool
	iface    descriptor.Interface
	hasIface bool
}

func BytecodeInput(code bytecode.Bytecode) Input {
	return Input{code: code, hasCode: true}
}

func DescriptorInput(iface descriptor.Interface) Input {
	return Input{iface: iface, hasIface: true}
}

func CombinedInput(iface descriptor.Interface, code bytecode.Bytecode) Input {
	return Input{iface: iface, hasIface: true, code: code, hasCode: true}
}

func (in Input) Code() (bytecode.Bytecode, bool) {
	return in.code, in.hasCode
}

func (in Input) Descriptor() (descriptor.Interface, bool) {
	return in.iface, in.hasIface
}

// ResolveInput classifies a raw string as descriptor JSON or bytecode.
// Malformed JSON that matches the bytecode grammar is treated as
// bytecode; anything else resolves to an empty input, which every
// detector answers with a not-applicable result.
func ResolveInput(raw string) Input {
	if iface, err := descriptor.Parse(raw); err == nil {
		return DescriptorInput(iface)
	}
	if code, err := bytecode.Normalize(raw); err == nil && !code.IsEmpty() {
		return BytecodeInput(code)
	}
	return Input{}
}

// Detector is the uniform contract all four analyzers implement.
type Detector interface {
	Category() Category
	Detect(in Input) Result
}

// evidenceSeverity is the shared escalation ladder used by the
// descriptor-based detectors.
func evidenceSeverity(confidence float64, evidenceCount int) Severity {
	switch {
	case confidence >= 0.8 && evidenceCount >= 3:
		return SeverityCritical
	case confidence >= 0.6 && evidenceCount >= 2:
		return SeverityHigh
	case confidence >= 0.4 && evidenceCount >= 1:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
