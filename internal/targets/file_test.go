package targets

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFromFileText(t *testing.T) {
	path := writeFile(t, "targets.txt", `
# honeypot sweep
0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA
// duplicate below, different case
0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa
0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB, label ignored
not-an-address
`)

	got, diags, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d targets, want 2: %+v", len(got), got)
	}
	if got[0].Address != "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" {
		t.Errorf("address not normalized: %s", got[0].Address)
	}
	if got[1].Address != "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb" {
		t.Errorf("delimited line not handled: %s", got[1].Address)
	}
	if len(diags) != 1 {
		t.Errorf("malformed entry should yield one diagnostic: %+v", diags)
	}
}

func TestFromFileYAMLList(t *testing.T) {
	path := writeFile(t, "targets.yaml", `
- "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
- "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
`)
	got, _, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d targets, want 2", len(got))
	}
}

func TestFromFileYAMLWrapper(t *testing.T) {
	path := writeFile(t, "targets.yaml", `
targets:
  - "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
`)
	got, _, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d targets, want 1", len(got))
	}
}

func TestFromFileYAMLObjects(t *testing.T) {
	path := writeFile(t, "targets.yml", `
- address: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
  name: suspicious-token
- address: "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
`)
	got, _, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if len(got) != 2 || got[0].Name != "suspicious-token" {
		t.Errorf("object form not handled: %+v", got)
	}
}

func TestFromFileYAMLEmpty(t *testing.T) {
	path := writeFile(t, "targets.yaml", "other: value\n")
	if _, _, err := FromFile(path); err == nil {
		t.Error("empty target file should fail")
	}
}

func TestValidTableName(t *testing.T) {
	for name, want := range map[string]bool{
		"eth_contracts":       true,
		"bsc_contracts_2024":  true,
		"":                    false,
		"contracts; DROP ALL": false,
		"table-name":          false,
	} {
		if got := validTableName(name); got != want {
			t.Errorf("validTableName(%q) = %t, want %t", name, got, want)
		}
	}
}
