package pattern

import (
	"strings"
	"testing"

	"scamscan/internal/bytecode"
	"scamscan/internal/descriptor"
)

func mustParse(t *testing.T, raw string) descriptor.Interface {
	t.Helper()
	it, err := descriptor.Parse(raw)
	if err != nil {
		t.Fatalf("descriptor.Parse: %v", err)
	}
	return it
}

// A view transfer with a correctly-shaped Transfer event: the reference
// honeypot descriptor used across detector tests.
const viewTransferABI = `[
  {"type":"function","name":"transfer","stateMutability":"view",
   "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"event","name":"Transfer",
   "inputs":[{"name":"from","type":"address","indexed":true},
             {"name":"to","type":"address","indexed":true},
             {"name":"value","type":"uint256","indexed":false}]}
]`

func TestDeceptiveEventsViewTransfer(t *testing.T) {
	in := DescriptorInput(mustParse(t, viewTransferABI))
	r := DeceptiveEvents{}.Detect(in)

	if !r.Detected {
		t.Fatal("view transfer with Transfer event should be detected")
	}
	if r.Confidence <= 0.3 {
		t.Errorf("confidence %f too low", r.Confidence)
	}
	if len(r.Evidence) == 0 {
		t.Error("expected evidence")
	}
}

func TestDeceptiveEventsCleanContract(t *testing.T) {
	clean := `[
	  {"type":"function","name":"transfer","stateMutability":"nonpayable",
	   "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
	   "outputs":[{"name":"","type":"bool"}]},
	  {"type":"event","name":"Transfer",
	   "inputs":[{"name":"from","type":"address","indexed":true},
	             {"name":"to","type":"address","indexed":true},
	             {"name":"value","type":"uint256"}]}
	]`
	r := DeceptiveEvents{}.Detect(DescriptorInput(mustParse(t, clean)))
	if r.Detected {
		t.Errorf("clean ERC-20 flagged: %+v", r)
	}
}

func TestDeceptiveEventsRequiresDescriptor(t *testing.T) {
	r := DeceptiveEvents{}.Detect(BytecodeInput("0x6080"))
	if r.Detected || r.Confidence != 0 {
		t.Errorf("non-descriptor input must yield neutral result: %+v", r)
	}
	if r.Metadata["reason"] == "" {
		t.Error("reason code missing from metadata")
	}
}

func TestHiddenRedirectionSelfDestruct(t *testing.T) {
	// PUSH20 deadbeef… + SELFDESTRUCT
	code := bytecode.Bytecode("0x73deadbeefdeadbeefdeadbeefdeadbeefdeadbeefff")
	r := HiddenRedirection{}.Detect(BytecodeInput(code))

	if !r.Detected {
		t.Fatal("hard-coded selfdestruct beneficiary not detected")
	}
	if r.Severity != SeverityCritical {
		t.Errorf("severity = %s, want critical", r.Severity)
	}
	joined := strings.ToLower(strings.Join(r.Evidence, "\n"))
	if !strings.Contains(joined, "selfdestruct with hard-coded beneficiary") {
		t.Errorf("evidence missing selfdestruct mention: %v", r.Evidence)
	}
	if !strings.Contains(joined, "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef") {
		t.Errorf("evidence missing extracted address: %v", r.Evidence)
	}
}

func TestHiddenRedirectionHardCodedCall(t *testing.T) {
	// PUSH20 <addr> + CALL
	code := bytecode.Bytecode("0x73" + strings.Repeat("11", 20) + "f1")
	r := HiddenRedirection{}.Detect(BytecodeInput(code))
	if !r.Detected {
		t.Fatal("hard-coded call target not detected")
	}
	if r.Metadata["call_matches"] != "1" {
		t.Errorf("call_matches = %s", r.Metadata["call_matches"])
	}
}

func TestHiddenRedirectionSkipsPushOperands(t *testing.T) {
	// PUSH32 whose operand embeds a CALL byte (0xf1). With correct
	// operand skipping there is no call instruction at all.
	operand := strings.Repeat("f1", 32)
	code := bytecode.Bytecode("0x7f" + operand + "00")
	r := HiddenRedirection{}.Detect(BytecodeInput(code))
	if r.Detected {
		t.Errorf("bytes inside a PUSH operand misread as opcodes: %+v", r)
	}
}

func TestHiddenRedirectionRequiresBytecode(t *testing.T) {
	r := HiddenRedirection{}.Detect(DescriptorInput(mustParse(t, viewTransferABI)))
	if r.Detected || r.Confidence != 0 {
		t.Errorf("descriptor input must yield neutral result: %+v", r)
	}
	if !strings.Contains(r.Metadata["reason"], "bytecode") {
		t.Errorf("reason should say bytecode is required: %v", r.Metadata)
	}
}

func TestFakeBalanceNonNumericReturn(t *testing.T) {
	abi := `[
	  {"type":"function","name":"balanceOf","stateMutability":"view",
	   "inputs":[{"name":"owner","type":"address"}],
	   "outputs":[{"name":"","type":"string"}]}
	]`
	r := FakeBalance{}.Detect(DescriptorInput(mustParse(t, abi)))
	if !r.Detected {
		t.Fatalf("non-numeric balance return not flagged: %+v", r)
	}
}

func TestFakeBalanceTimeDependent(t *testing.T) {
	abi := `[
	  {"type":"function","name":"balanceNow","stateMutability":"view",
	   "inputs":[],"outputs":[{"name":"","type":"uint256"}]}
	]`
	r := FakeBalance{}.Detect(DescriptorInput(mustParse(t, abi)))
	if !r.Detected {
		t.Fatalf("time-dependent balance query not flagged: %+v", r)
	}
}

func TestFakeBalanceHonestQuery(t *testing.T) {
	abi := `[
	  {"type":"function","name":"balanceOf","stateMutability":"view",
	   "inputs":[{"name":"owner","type":"address"}],
	   "outputs":[{"name":"","type":"uint256"}]},
	  {"type":"function","name":"transfer","stateMutability":"nonpayable",
	   "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
	   "outputs":[{"name":"","type":"bool"}]}
	]`
	r := FakeBalance{}.Detect(DescriptorInput(mustParse(t, abi)))
	if r.Detected {
		t.Errorf("honest balanceOf flagged: %+v", r)
	}
}

func TestNonFunctionalTransferViewTransfer(t *testing.T) {
	r := NonFunctionalTransfer{}.Detect(DescriptorInput(mustParse(t, viewTransferABI)))
	if !r.Detected {
		t.Fatal("view transfer not detected")
	}
	if r.Severity != SeverityHigh && r.Severity != SeverityCritical {
		t.Errorf("severity = %s, want high or critical", r.Severity)
	}
}

func TestNonFunctionalTransferShapeMismatch(t *testing.T) {
	abi := `[
	  {"type":"function","name":"transfer","stateMutability":"nonpayable",
	   "inputs":[{"name":"amount","type":"uint256"}],
	   "outputs":[{"name":"","type":"bool"}]}
	]`
	r := NonFunctionalTransfer{}.Detect(DescriptorInput(mustParse(t, abi)))
	if !r.Detected {
		t.Fatalf("shape mismatch not detected: %+v", r)
	}
	joined := strings.Join(r.Evidence, "\n")
	if !strings.Contains(joined, "canonical") {
		t.Errorf("evidence should mention the canonical shape: %v", r.Evidence)
	}
}

func TestNonFunctionalTransferLogWithoutStore(t *testing.T) {
	// LOG1 present, no SSTORE anywhere.
	code := bytecode.Bytecode("0x6000600060006000a1")
	r := NonFunctionalTransfer{}.Detect(CombinedInput(mustParse(t, viewTransferABI), code))
	joined := strings.Join(r.Evidence, "\n")
	if !strings.Contains(joined, "SSTORE") {
		t.Errorf("log-without-store evidence missing: %v", r.Evidence)
	}
	if r.Confidence <= 0.5 {
		t.Errorf("bytecode signal should raise confidence above 0.5, got %f", r.Confidence)
	}
}

func TestNonFunctionalTransferStoreSuppressesLogSignal(t *testing.T) {
	// SSTORE present alongside LOG1.
	code := bytecode.Bytecode("0x60006000556000600060006000a1")
	r := NonFunctionalTransfer{}.Detect(CombinedInput(mustParse(t, viewTransferABI), code))
	for _, e := range r.Evidence {
		if strings.Contains(e, "SSTORE") {
			t.Errorf("store-backed logs must not be flagged: %v", r.Evidence)
		}
	}
}

func TestDetectorsNeverDetectOnEmptyInput(t *testing.T) {
	detectors := []Detector{DeceptiveEvents{}, HiddenRedirection{}, FakeBalance{}, NonFunctionalTransfer{}}
	for _, d := range detectors {
		r := d.Detect(Input{})
		if r.Detected || r.Confidence != 0 {
			t.Errorf("%s detected on empty input: %+v", d.Category(), r)
		}
		if r.Metadata["reason"] == "" {
			t.Errorf("%s missing reason code", d.Category())
		}
	}
}
