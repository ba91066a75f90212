// Package descriptor models a contract's declared interface (its ABI):
// the ordered list of functions and events with parameter types and
// mutability. Untrusted JSON is decoded into this typed model exactly
// once at the pipeline boundary.
package descriptor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

type Kind string

const (
	KindFunction    Kind = "function"
	KindEvent       Kind = "event"
	KindConstructor Kind = "constructor"
	KindFallback    Kind = "fallback"
	KindReceive     Kind = "receive"
)

type Mutability string

const (
	MutabilityPure       Mutability = "pure"
	MutabilityView       Mutability = "view"
	MutabilityNonPayable Mutability = "nonpayable"
	MutabilityPayable    Mutability = "payable"
)

// Param is one input or output parameter. Indexed is only meaningful on
// event inputs.
type Param struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed,omitempty"`
}

// Entry is one declared function, event, constructor or fallback.
type Entry struct {
	Name            string     `json:"name,omitempty"`
	Type            Kind       `json:"type"`
	Inputs          []Param    `json:"inputs,omitempty"`
	Outputs         []Param    `json:"outputs,omitempty"`
	StateMutability Mutability `json:"stateMutability,omitempty"`
	Anonymous       bool       `json:"anonymous,omitempty"`
	// Constant is the legacy pre-0.5 mutability flag still present in
	// ABIs exported by old compilers and explorers.
	Constant bool `json:"constant,omitempty"`
}

// Interface is the ordered descriptor list as declared in the ABI.
type Interface []Entry

// Parse decodes raw ABI JSON. Entries with an empty or unknown type are
// dropped rather than rejected; explorers emit a long tail of variants.
func Parse(raw string) (Interface, error) {
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("descriptor: %w", err)
	}
	out := make(Interface, 0, len(entries))
	for _, e := range entries {
		switch e.Type {
		case KindFunction, KindEvent, KindConstructor, KindFallback, KindReceive:
		case "":
			continue
		default:
			continue
		}
		if e.StateMutability == "" {
			if e.Constant {
				e.StateMutability = MutabilityView
			} else {
				e.StateMutability = MutabilityNonPayable
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// Functions returns the declared functions in order.
func (it Interface) Functions() []Entry {
	var out []Entry
	for _, e := range it {
		if e.Type == KindFunction {
			out = append(out, e)
		}
	}
	return out
}

// Events returns the declared events in order.
func (it Interface) Events() []Entry {
	var out []Entry
	for _, e := range it {
		if e.Type == KindEvent {
			out = append(out, e)
		}
	}
	return out
}

// IsReadOnly reports whether a function cannot mutate state.
func (e Entry) IsReadOnly() bool {
	return e.StateMutability == MutabilityPure || e.StateMutability == MutabilityView
}

// Signature renders the canonical "name(type1,type2)" form.
func (e Entry) Signature() string {
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = p.Type
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(types, ","))
}

// Selector returns the 4-byte function selector as 0x-prefixed hex.
func (e Entry) Selector() string {
	hash := crypto.Keccak256([]byte(e.Signature()))
	return fmt.Sprintf("0x%x", hash[:4])
}

// InputTypes lists the declared input types in order.
func (e Entry) InputTypes() []string {
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = p.Type
	}
	return types
}
