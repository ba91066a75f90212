// Package secerr defines the error taxonomy shared by the analysis
// pipeline. Every failure that crosses a package boundary is one of four
// typed kinds so that callers can distinguish retryable provider faults
// from untrusted-data rejection without parsing messages.
package secerr

import (
	"errors"
	"fmt"
)

// Fault classifies a chain-provider failure. Callers may retry network,
// rate-limit and timeout faults; validation and bytecode errors are
// never retryable.
type Fault string

const (
	FaultNetwork   Fault = "network"
	FaultRateLimit Fault = "rate_limit"
	FaultTimeout   Fault = "timeout"
	FaultGeneric   Fault = "generic"
)

// securityError is the common envelope. All four kinds implement it, so
// a caller can treat any pipeline failure uniformly via IsSecurityError
// while still switching on the concrete kind with errors.As.
type securityError interface {
	error
	securityError()
}

// IsSecurityError reports whether err (or anything it wraps) originated
// in this package's taxonomy.
func IsSecurityError(err error) bool {
	var se securityError
	return errors.As(err, &se)
}

// ValidationError rejects malformed caller input: addresses, descriptor
// JSON, or report parameters. Always the caller's fault.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) securityError() {}

// ProviderError wraps a chain-reader failure with its classified fault
// kind and the address that was being fetched.
type ProviderError struct {
	Address string
	Fault   Fault
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s fault fetching code for %s: %v", e.Fault, e.Address, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) securityError() {}

// BytecodeError rejects fetched data that fails the bytecode grammar or
// size bounds. The cache is never populated when this is returned.
type BytecodeError struct {
	Address string
	Reason  string
}

func (e *BytecodeError) Error() string {
	return fmt.Sprintf("invalid bytecode for %s: %s", e.Address, e.Reason)
}

func (e *BytecodeError) securityError() {}

// AnalysisError reports an internal pipeline failure such as report
// persistence.
type AnalysisError struct {
	Op  string
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failure in %s: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

func (e *AnalysisError) securityError() {}
