package pattern

import (
	"fmt"
	"strings"

	"scamscan/internal/descriptor"
)

const (
	fakeBalanceScale     = 1.5
	fakeBalanceThreshold = 0.3
)

// FakeBalance flags balance-query functions that cannot be returning a
// real balance: wrong return type, or a name that ties the result to
// the clock (a classic trick for balances that "grow" without any
// state change).
type FakeBalance struct{}

func (FakeBalance) Category() Category { return CategoryFakeBalance }

func (FakeBalance) Detect(in Input) Result {
	iface, ok := in.Descriptor()
	if !ok {
		return notApplicable(CategoryFakeBalance, "requires interface descriptor")
	}

	functions := iface.Functions()
	if len(functions) == 0 {
		return Result{
			Category: CategoryFakeBalance,
			Severity: SeverityLow,
			Metadata: map[string]string{"reason": "no functions declared"},
		}
	}

	var evidence []string
	suspicious := 0

	for _, fn := range functions {
		if !fn.IsReadOnly() {
			continue
		}
		name := strings.ToLower(fn.Name)
		if !strings.Contains(name, "balance") {
			continue
		}

		if !returnsNumeric(fn.Outputs) {
			suspicious++
			evidence = append(evidence, fmt.Sprintf(
				"balance query %s does not return a numeric amount", fn.Signature()))
			continue
		}
		if strings.Contains(name, "timestamp") || strings.Contains(name, "now") {
			suspicious++
			evidence = append(evidence, fmt.Sprintf(
				"balance query %s is named after the clock, suggesting a time-fabricated value", fn.Signature()))
		}
	}

	confidence := minFloat(fakeBalanceScale*float64(suspicious)/float64(len(functions)), 1)
	detected := confidence > fakeBalanceThreshold && len(evidence) > 0

	desc := "No fabricated balance queries found"
	if detected {
		desc = fmt.Sprintf("%d of %d functions look like fabricated balance queries", suspicious, len(functions))
	}

	return Result{
		Detected:    detected,
		Confidence:  confidence,
		Category:    CategoryFakeBalance,
		Description: desc,
		Evidence:    evidence,
		Severity:    evidenceSeverity(confidence, len(evidence)),
		Metadata: map[string]string{
			"total_functions":      fmt.Sprintf("%d", len(functions)),
			"suspicious_functions": fmt.Sprintf("%d", suspicious),
		},
	}
}

// returnsNumeric accepts any declared integer return as the expected
// balance type.
func returnsNumeric(outputs []descriptor.Param) bool {
	if len(outputs) == 0 {
		return false
	}
	t := outputs[0].Type
	return strings.HasPrefix(t, "uint") || strings.HasPrefix(t, "int")
}
