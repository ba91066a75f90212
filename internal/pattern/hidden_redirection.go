package pattern

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
)

// Addresses that legitimate contracts have no reason to hard-code as a
// call or transfer target: burn sinks, the classic deadbeef placeholder
// used by drainer factories, and the Tornado Cash router.
var suspiciousAddresses = map[common.Address]string{
	common.HexToAddress("0x0000000000000000000000000000000000000000"): "zero address",
	common.HexToAddress("0x000000000000000000000000000000000000dEaD"): "burn address",
	common.HexToAddress("0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"): "deadbeef placeholder",
	common.HexToAddress("0xd90e2f925DA726b50C4Ed8D0Fb90Ad053324F31b"): "tornado cash router",
}

// Confidence contributions per match type, and the multiplier applied
// when more than one distinct type is present. Fixed empirical literals
// preserved as-is.
const (
	redirectCallWeight         = 0.3
	redirectJumpWeight         = 0.2
	redirectSelfDestructWeight = 0.4
	redirectDenylistWeight     = 0.1
	redirectComboMultiplier    = 1.5
	redirectThreshold          = 0.2
)

// HiddenRedirection scans the opcode stream for hard-coded control and
// fund flow: addresses pushed immediately before cross-contract calls,
// branch targets pushed before conditional jumps, and hard-coded
// SELFDESTRUCT beneficiaries.
type HiddenRedirection struct{}

func (HiddenRedirection) Category() Category { return CategoryHiddenRedirection }

func (HiddenRedirection) Detect(in Input) Result {
	code, ok := in.Code()
	if !ok || code.IsEmpty() {
		return notApplicable(CategoryHiddenRedirection, "requires bytecode")
	}

	ins := scanOpcodes(code)

	var (
		evidence    []string
		callMatches int
		jumpMatches int
		sdMatches   int
		denyMatches int
	)

	for i := 0; i < len(ins)-1; i++ {
		cur, next := ins[i], ins[i+1]

		if cur.op == vm.PUSH20 && len(cur.operand) == 20 {
			addr := common.BytesToAddress(cur.operand)
			if isCallOp(next.op) {
				callMatches++
				evidence = append(evidence, fmt.Sprintf(
					"%s at offset %d targets hard-coded address %s", next.op, next.pos, addr.Hex()))
			}
			if next.op == vm.SELFDESTRUCT {
				sdMatches++
				evidence = append(evidence, fmt.Sprintf(
					"SELFDESTRUCT with hard-coded beneficiary %s at offset %d", addr.Hex(), next.pos))
			}
			if label, bad := suspiciousAddresses[addr]; bad {
				denyMatches++
				evidence = append(evidence, fmt.Sprintf(
					"hard-coded %s %s embedded in bytecode", label, addr.Hex()))
			}
		}

		if cur.op.IsPush() && next.op == vm.JUMPI {
			jumpMatches++
			evidence = append(evidence, fmt.Sprintf(
				"conditional jump at offset %d with hard-coded target", next.pos))
		}
	}

	confidence := 0.0
	distinctTypes := 0
	for _, m := range []struct {
		count  int
		weight float64
	}{
		{callMatches, redirectCallWeight},
		{jumpMatches, redirectJumpWeight},
		{sdMatches, redirectSelfDestructWeight},
		{denyMatches, redirectDenylistWeight},
	} {
		if m.count > 0 {
			confidence += m.weight
			distinctTypes++
		}
	}
	if distinctTypes > 1 {
		confidence *= redirectComboMultiplier
	}
	confidence = minFloat(confidence, 1)

	total := callMatches + jumpMatches + sdMatches + denyMatches
	detected := confidence > redirectThreshold && total > 0

	var severity Severity
	switch {
	case sdMatches > 0 && confidence >= 0.6:
		severity = SeverityCritical
	case callMatches > 2 && confidence >= 0.5:
		severity = SeverityHigh
	case confidence >= 0.4:
		severity = SeverityMedium
	default:
		severity = SeverityLow
	}

	desc := "No hidden redirection patterns found"
	if detected {
		var kinds []string
		if callMatches > 0 {
			kinds = append(kinds, "hard-coded call targets")
		}
		if jumpMatches > 0 {
			kinds = append(kinds, "hard-coded branch targets")
		}
		if sdMatches > 0 {
			kinds = append(kinds, "hard-coded selfdestruct beneficiaries")
		}
		if denyMatches > 0 {
			kinds = append(kinds, "known suspicious addresses")
		}
		desc = "Bytecode contains " + strings.Join(kinds, ", ")
	}

	return Result{
		Detected:    detected,
		Confidence:  confidence,
		Category:    CategoryHiddenRedirection,
		Description: desc,
		Evidence:    evidence,
		Severity:    severity,
		Metadata: map[string]string{
			"call_matches":         fmt.Sprintf("%d", callMatches),
			"jump_matches":         fmt.Sprintf("%d", jumpMatches),
			"selfdestruct_matches": fmt.Sprintf("%d", sdMatches),
			"denylist_matches":     fmt.Sprintf("%d", denyMatches),
		},
	}
}
