package bytecode

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    Bytecode
		wantErr bool
	}{
		{"empty", "", "", false},
		{"bare prefix", "0x", "", false},
		{"upper prefix", "0X", "", false},
		{"simple", "0x6080", "0x6080", false},
		{"mixed case", "0x60AbCd", "0x60abcd", false},
		{"no prefix", "6080604052", "", true},
		{"non-hex", "0x60zz", "", true},
		{"oversized", "0x" + strings.Repeat("ab", MaxLength), "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q): %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestByteSize(t *testing.T) {
	cases := []struct {
		code Bytecode
		want int
	}{
		{"", 0},
		{"0x60", 1},
		{"0x6080604052", 5},
	}
	for _, tc := range cases {
		if got := tc.code.ByteSize(); got != tc.want {
			t.Errorf("ByteSize(%q) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestLooksLikeProxy(t *testing.T) {
	eip1167 := Bytecode("0x3d602d80600a3d3981f3363d3d373d3d3d363d73bebebebebebebebebebebebebebebebebebebebe5af43d82803e903d91602b57fd5bf3")
	if !LooksLikeProxy(eip1167) {
		t.Error("canonical EIP-1167 prologue not recognized")
	}

	// Case-insensitivity is on the containment check itself.
	mixed := Bytecode("0x3D602D80600A3D3981F3363D3D373D3D3D363D73bebebebebebebebebebebebebebebebebebebebe")
	if !LooksLikeProxy(mixed) {
		t.Error("proxy signature match must ignore letter case")
	}

	if LooksLikeProxy("") {
		t.Error("empty sentinel is not a proxy")
	}
	if LooksLikeProxy("0x6080604052348015600f57600080fd5b50") {
		t.Error("unrelated bytecode flagged as proxy")
	}
}
