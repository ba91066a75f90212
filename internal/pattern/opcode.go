package pattern

import (
	"github.com/ethereum/go-ethereum/core/vm"

	"scamscan/internal/bytecode"
)

// instruction is one decoded opcode with its byte position and, for the
// PUSH family, the literal operand that follows it.
type instruction struct {
	pos     int
	op      vm.OpCode
	operand []byte
}

// scanOpcodes linearizes bytecode into an instruction stream. Operand
// bytes of every PUSH1..PUSH32 are consumed as data, not opcodes;
// treating them as opcodes would misalign every boundary after the
// first literal and pair pushes with the wrong successor.
func scanOpcodes(code bytecode.Bytecode) []instruction {
	raw := code.Bytes()
	out := make([]instruction, 0, len(raw))
	for pc := 0; pc < len(raw); {
		op := vm.OpCode(raw[pc])
		ins := instruction{pos: pc, op: op}
		if op.IsPush() && op != vm.PUSH0 {
			n := int(op - vm.PUSH1 + 1)
			end := pc + 1 + n
			if end > len(raw) {
				// Truncated trailing push; keep what is there.
				end = len(raw)
			}
			ins.operand = raw[pc+1 : end]
			pc = end
		} else {
			pc++
		}
		out = append(out, ins)
	}
	return out
}

func isCallOp(op vm.OpCode) bool {
	switch op {
	case vm.CALL, vm.CALLCODE, vm.DELEGATECALL, vm.STATICCALL:
		return true
	default:
		return false
	}
}

func isLogOp(op vm.OpCode) bool {
	return op >= vm.LOG0 && op <= vm.LOG4
}
