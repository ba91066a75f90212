// Package bytecode models deployed contract bytecode and owns the
// bounded fetch cache in front of the chain reader.
package bytecode

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"scamscan/internal/secerr"
)

// MaxLength bounds the accepted hex payload. Deployed EVM code is capped
// near 24KB by EIP-170; anything past this is a malformed or hostile
// response, rejected before it can exhaust memory.
const MaxLength = 25000

// Bytecode is a validated, lowercase "0x"-prefixed hex string. The empty
// string is the sentinel for "no code at this address".
type Bytecode string

// Normalize validates raw against the bytecode grammar and returns the
// canonical form. "" and "0x" both normalize to the empty sentinel. On
// failure the returned error is a BytecodeError without an address; the
// store fills in which address produced it.
func Normalize(raw string) (Bytecode, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "0x" || s == "0X" {
		return "", nil
	}
	if len(s) > MaxLength {
		return "", &secerr.BytecodeError{Reason: "bytecode exceeds maximum length"}
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return "", &secerr.BytecodeError{Reason: "missing 0x prefix"}
	}
	digits := s[2:]
	for _, r := range digits {
		if !isHexDigit(r) {
			return "", &secerr.BytecodeError{Reason: "contains non-hex characters"}
		}
	}
	return Bytecode("0x" + strings.ToLower(digits)), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// IsEmpty reports the no-code sentinel, i.e. a non-contract account.
func (b Bytecode) IsEmpty() bool { return b == "" }

// ByteSize is the decoded size in bytes: half the hex digit count, zero
// for the empty sentinel.
func (b Bytecode) ByteSize() int {
	if b.IsEmpty() {
		return 0
	}
	return (len(b) - 2) / 2
}

// Bytes decodes the hex payload. Empty sentinel decodes to nil.
func (b Bytecode) Bytes() []byte {
	if b.IsEmpty() {
		return nil
	}
	return common.FromHex(string(b))
}

// Known minimal-proxy byte signatures. The first is the canonical
// EIP-1167 prologue, the second its runtime call block, the third the
// 0age/Solady variant.
var proxySignatures = []string{
	"3d602d80600a3d3981f3363d3d373d3d3d363d73",
	"363d3d373d3d3d363d73",
	"36603057343d52307f",
}

// LooksLikeProxy reports whether b contains a known minimal-proxy
// signature, letter case ignored.
func LooksLikeProxy(b Bytecode) bool {
	if b.IsEmpty() {
		return false
	}
	code := strings.ToLower(string(b))
	for _, sig := range proxySignatures {
		if strings.Contains(code, sig) {
			return true
		}
	}
	return false
}
