// Package targets resolves scan targets from their supported sources:
// plain address lists, YAML target files and the contract database.
// Every source normalizes and deduplicates addresses; malformed entries
// are skipped with a diagnostic, never fatal.
package targets

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"scamscan/internal/address"
	"scamscan/internal/analysis"
	"scamscan/internal/diag"
)

// FromFile reads targets from path. YAML files may hold a plain string
// list, a {targets: [...]} or {addresses: [...]} wrapper, or a list of
// objects with address, name and abi fields. Anything else is treated
// as a text file: one address per line, # and // comments allowed,
// first field wins on delimited lines.
func FromFile(path string) ([]analysis.Target, []diag.Diagnostic, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(path)))
	if ext == ".yaml" || ext == ".yml" {
		return fromYAML(path)
	}
	return fromText(path)
}

func fromYAML(path string) ([]analysis.Target, []diag.Diagnostic, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var objects []analysis.Target
	if err := yaml.Unmarshal(bs, &objects); err == nil && len(objects) > 0 && objects[0].Address != "" {
		return normalize(objects)
	}

	var list []string
	if err := yaml.Unmarshal(bs, &list); err == nil && len(list) > 0 {
		return normalize(plain(list))
	}

	var wrapper struct {
		Targets   []string `yaml:"targets"`
		Addresses []string `yaml:"addresses"`
	}
	if err := yaml.Unmarshal(bs, &wrapper); err == nil {
		if len(wrapper.Targets) > 0 {
			return normalize(plain(wrapper.Targets))
		}
		if len(wrapper.Addresses) > 0 {
			return normalize(plain(wrapper.Addresses))
		}
	}
	return nil, nil, fmt.Errorf("no targets found in %s", path)
}

func fromText(path string) ([]analysis.Target, []diag.Diagnostic, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	var raw []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		if len(fields) == 0 {
			continue
		}
		raw = append(raw, strings.TrimSpace(fields[0]))
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return normalize(plain(raw))
}

func plain(addrs []string) []analysis.Target {
	out := make([]analysis.Target, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, analysis.Target{Address: a})
	}
	return out
}

// normalize lowercases every address, drops duplicates and reports
// malformed entries as diagnostics.
func normalize(in []analysis.Target) ([]analysis.Target, []diag.Diagnostic, error) {
	seen := make(map[address.Address]struct{}, len(in))
	out := make([]analysis.Target, 0, len(in))
	var diagnostics []diag.Diagnostic

	for _, t := range in {
		addr, err := address.Parse(t.Address)
		if err != nil {
			diagnostics = append(diagnostics, diag.Warning(t.Address, fmt.Sprintf("target skipped: %v", err)))
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		t.Address = string(addr)
		out = append(out, t)
	}
	return out, diagnostics, nil
}
