// Package address converts untrusted address strings into the validated,
// normalized form used everywhere else. No other package accepts a raw
// address string.
package address

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"scamscan/internal/secerr"
)

// Address is a lowercase-normalized "0x" + 40 hex digit identifier. It is
// safe to use as a cache or comparison key without further processing.
type Address string

// Parse validates raw against the strict grammar and returns the
// normalized address. Parse is idempotent over its own output.
func Parse(raw string) (Address, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return "", &secerr.ValidationError{Field: "address", Value: raw, Reason: "missing 0x prefix"}
	}
	if len(s) != 2+2*common.AddressLength {
		return "", &secerr.ValidationError{Field: "address", Value: raw, Reason: "must be 0x followed by 40 hex digits"}
	}
	if !common.IsHexAddress(s) {
		return "", &secerr.ValidationError{Field: "address", Value: raw, Reason: "contains non-hex characters"}
	}
	return Address(strings.ToLower(s)), nil
}

// MustParse is for constants and tests with known-good input.
func MustParse(raw string) Address {
	a, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string { return string(a) }

// Common returns the go-ethereum representation for RPC calls.
func (a Address) Common() common.Address {
	return common.HexToAddress(string(a))
}
