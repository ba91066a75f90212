package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("missing explicit file should fail")
	}

	// Empty path with no discoverable file falls back to defaults.
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.MaxEntries != 1000 || cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("cache defaults wrong: %+v", cfg.Cache)
	}
	if cfg.Scan.Workers != 4 || cfg.Scan.OutputDir != "reports" {
		t.Errorf("scan defaults wrong: %+v", cfg.Scan)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
chains:
  ethereum:
    name: ethereum
    chain_id: 1
    rpc_urls:
      - https://rpc.example.org
    table_name: eth_contracts
database:
  host: db.internal
  port: "3306"
  user: scanner
  password: secret
  name: contracts
scan:
  workers: 8
  output_dir: out
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SCAMSCAN_DB_HOST", "override.internal")
	t.Setenv("SCAMSCAN_WORKERS", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Host != "override.internal" {
		t.Errorf("env override lost: %s", cfg.Database.Host)
	}
	if cfg.Scan.Workers != 2 {
		t.Errorf("env worker override lost: %d", cfg.Scan.Workers)
	}

	chain, err := cfg.Chain("ethereum")
	if err != nil || chain.ChainID != 1 || len(chain.RPCURLs) != 1 {
		t.Errorf("chain lookup wrong: %+v err=%v", chain, err)
	}
	if _, err := cfg.Chain("solana"); err == nil {
		t.Error("unknown chain should fail")
	}

	// Single configured chain answers for "default".
	if chain, err := cfg.Chain("default"); err != nil || chain.Name != "ethereum" {
		t.Errorf("default chain fallback wrong: %+v err=%v", chain, err)
	}

	want := "scanner:secret@tcp(override.internal:3306)/contracts?parseTime=true&charset=utf8mb4"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
