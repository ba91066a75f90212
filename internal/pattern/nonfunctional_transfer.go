package pattern

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/core/vm"

	"scamscan/internal/bytecode"
	"scamscan/internal/descriptor"
)

// Category weights for the non-functional-transfer confidence sum. A
// transfer declared view/pure is the strongest possible signal: the
// function cannot move anything by construction.
const (
	nftReadOnlyTransferWeight = 0.5
	nftMissingEventWeight     = 0.2
	nftOrphanEventWeight      = 0.2
	nftShapeMismatchWeight    = 0.3
	nftLogWithoutStoreWeight  = 0.3
	nftThreshold              = 0.3
)

var canonicalTransferShapes = map[string][]string{
	"transfer":     {"address", "uint256"},
	"transferfrom": {"address", "address", "uint256"},
}

// NonFunctionalTransfer flags transfer surfaces that cannot actually
// move tokens: read-only transfer functions, transfers without Transfer
// events (and vice versa), parameter shapes that diverge from the ERC-20
// canon, and — when bytecode is supplied — event emission without a
// single SSTORE.
type NonFunctionalTransfer struct{}

func (NonFunctionalTransfer) Category() Category { return CategoryNonFunctionalTransfer }

func (NonFunctionalTransfer) Detect(in Input) Result {
	iface, ok := in.Descriptor()
	if !ok {
		return notApplicable(CategoryNonFunctionalTransfer, "requires interface descriptor")
	}

	functions := iface.Functions()
	events := iface.Events()

	transferFns := filterTransferLike(functions)
	transferEvs := filterTransferLikeEvents(events)

	var evidence []string
	confidence := 0.0
	canonicalReadOnly := false

	// (a) transfer-like functions declared view/pure.
	readOnlyHit := false
	for _, fn := range transferFns {
		if !fn.IsReadOnly() {
			continue
		}
		readOnlyHit = true
		if _, canonical := canonicalTransferShapes[strings.ToLower(fn.Name)]; canonical {
			canonicalReadOnly = true
		}
		evidence = append(evidence, fmt.Sprintf(
			"transfer function %s is declared %s and cannot change any balance",
			fn.Signature(), fn.StateMutability))
	}
	if readOnlyHit {
		confidence += nftReadOnlyTransferWeight
	}

	// (b) transfer-like functions with no correlated Transfer-like event.
	missingEvent := false
	for _, fn := range transferFns {
		if len(transferEvs) == 0 || !hasCorrelatedEvent(fn.Name, events) {
			missingEvent = true
			evidence = append(evidence, fmt.Sprintf(
				"transfer function %s has no correlated Transfer event", fn.Signature()))
		}
	}
	if missingEvent {
		confidence += nftMissingEventWeight
	}

	// (c) Transfer-like events with no transfer function at all.
	orphanEvent := false
	for _, ev := range transferEvs {
		if len(transferFns) == 0 {
			orphanEvent = true
			evidence = append(evidence, fmt.Sprintf(
				"event %s is declared but no transfer function exists", ev.Name))
		}
	}
	if orphanEvent {
		confidence += nftOrphanEventWeight
	}

	// (d) canonical signature shape mismatches.
	shapeMismatch := false
	for _, fn := range transferFns {
		want, canonical := canonicalTransferShapes[strings.ToLower(fn.Name)]
		if !canonical {
			continue
		}
		if !typesEqual(fn.InputTypes(), want) {
			shapeMismatch = true
			evidence = append(evidence, fmt.Sprintf(
				"%s diverges from the canonical %s(%s) shape",
				fn.Signature(), fn.Name, strings.Join(want, ",")))
		}
	}
	if shapeMismatch {
		confidence += nftShapeMismatchWeight
	}

	// (e) bytecode-level: emits logs but never writes storage.
	if code, okCode := in.Code(); okCode && !code.IsEmpty() {
		if logsWithoutStore(code) {
			confidence += nftLogWithoutStoreWeight
			evidence = append(evidence, "bytecode emits events (LOG) but never issues an SSTORE: nothing it reports ever persists")
		}
	}

	confidence = minFloat(confidence, 1)
	detected := confidence > nftThreshold && len(evidence) > 0

	var severity Severity
	switch {
	case canonicalReadOnly && confidence >= 0.7:
		severity = SeverityCritical
	case canonicalReadOnly || confidence >= 0.6:
		severity = SeverityHigh
	case confidence >= 0.4:
		severity = SeverityMedium
	default:
		severity = SeverityLow
	}

	desc := "Transfer surface looks functional"
	if detected {
		desc = "Declared transfer surface cannot move tokens as presented"
	}

	return Result{
		Detected:    detected,
		Confidence:  confidence,
		Category:    CategoryNonFunctionalTransfer,
		Description: desc,
		Evidence:    evidence,
		Severity:    severity,
		Metadata: map[string]string{
			"transfer_functions": fmt.Sprintf("%d", len(transferFns)),
			"transfer_events":    fmt.Sprintf("%d", len(transferEvs)),
		},
	}
}

func filterTransferLike(functions []descriptor.Entry) []descriptor.Entry {
	var out []descriptor.Entry
	for _, fn := range functions {
		if strings.Contains(strings.ToLower(fn.Name), "transfer") {
			out = append(out, fn)
		}
	}
	return out
}

func filterTransferLikeEvents(events []descriptor.Entry) []descriptor.Entry {
	var out []descriptor.Entry
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Name), "transfer") {
			out = append(out, ev)
		}
	}
	return out
}

func typesEqual(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// logsWithoutStore reports event emission with zero storage writes
// anywhere in the code.
func logsWithoutStore(code bytecode.Bytecode) bool {
	hasLog := false
	for _, ins := range scanOpcodes(code) {
		if ins.op == vm.SSTORE {
			return false
		}
		if isLogOp(ins.op) {
			hasLog = true
		}
	}
	return hasLog
}
