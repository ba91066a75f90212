package pattern

import (
	"fmt"
	"strings"

	"scamscan/internal/descriptor"
)

// Event names that scam contracts emit to fake activity on explorers
// and wallets.
var scamProneEvents = map[string]bool{
	"transfer":   true,
	"approval":   true,
	"success":    true,
	"claimed":    true,
	"deposit":    true,
	"withdrawal": true,
	"reward":     true,
	"airdrop":    true,
}

const deceptiveEventsThreshold = 0.3

// DeceptiveEvents cross-references declared events against declared
// functions. An event without a correlated state-mutating function is
// decoration: nothing can have happened on chain for it to report.
type DeceptiveEvents struct{}

func (DeceptiveEvents) Category() Category { return CategoryDeceptiveEvents }

func (DeceptiveEvents) Detect(in Input) Result {
	iface, ok := in.Descriptor()
	if !ok {
		return notApplicable(CategoryDeceptiveEvents, "requires interface descriptor")
	}

	functions := iface.Functions()
	events := iface.Events()
	if len(events) == 0 {
		return Result{
			Category: CategoryDeceptiveEvents,
			Severity: SeverityLow,
			Metadata: map[string]string{"reason": "no events declared"},
		}
	}

	var evidence []string
	suspiciousEvents := 0

	for _, ev := range events {
		correlated := false
		for _, fn := range functions {
			if !namesCorrelate(ev.Name, fn.Name) {
				continue
			}
			if !fn.IsReadOnly() {
				correlated = true
				break
			}
			evidence = append(evidence, fmt.Sprintf(
				"event %s correlates only with read-only function %s, which cannot change state",
				ev.Name, fn.Signature()))
		}
		if !correlated && scamProneEvents[strings.ToLower(ev.Name)] {
			suspiciousEvents++
			evidence = append(evidence, fmt.Sprintf(
				"event %s has no state-mutating function that could legitimately emit it", ev.Name))
		}
	}

	for _, fn := range functions {
		if fn.IsReadOnly() {
			continue
		}
		if !hasCorrelatedEvent(fn.Name, events) {
			evidence = append(evidence, fmt.Sprintf(
				"state-mutating function %s emits no correlated event", fn.Signature()))
		}
	}

	confidence := minFloat(1.5*float64(suspiciousEvents)/float64(len(events)), 1)
	detected := confidence > deceptiveEventsThreshold && len(evidence) > 0

	desc := "No deceptive event declarations found"
	if detected {
		desc = fmt.Sprintf("%d of %d declared events appear deceptive", suspiciousEvents, len(events))
	}

	return Result{
		Detected:    detected,
		Confidence:  confidence,
		Category:    CategoryDeceptiveEvents,
		Description: desc,
		Evidence:    evidence,
		Severity:    evidenceSeverity(confidence, len(evidence)),
		Metadata: map[string]string{
			"total_events":      fmt.Sprintf("%d", len(events)),
			"suspicious_events": fmt.Sprintf("%d", suspiciousEvents),
		},
	}
}

func namesCorrelate(event, function string) bool {
	e := strings.ToLower(event)
	f := strings.ToLower(function)
	if e == "" || f == "" {
		return false
	}
	return strings.Contains(e, f) || strings.Contains(f, e)
}

func hasCorrelatedEvent(function string, events []descriptor.Entry) bool {
	for _, ev := range events {
		if namesCorrelate(ev.Name, function) {
			return true
		}
	}
	return false
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
