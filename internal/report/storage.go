package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage persists a rendered report. Implementations must be atomic:
// a crash mid-save never leaves a truncated report behind.
type Storage interface {
	Save(r *Report, markdown string) (SavedPaths, error)
}

type SavedPaths struct {
	Markdown string
	JSON     string
}

type FileStorage struct {
	OutputDir string
}

func NewFileStorage(outputDir string) *FileStorage {
	return &FileStorage{OutputDir: outputDir}
}

func sanitizeFilenameComponent(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	out := strings.Trim(b.String(), "._-")
	if out == "" {
		return "unknown"
	}
	return out
}

// Save writes the markdown rendering and a JSON dump of the report,
// each via a temp file renamed into place.
func (s *FileStorage) Save(r *Report, markdown string) (SavedPaths, error) {
	if s.OutputDir == "" {
		s.OutputDir = "reports"
	}
	if err := os.MkdirAll(s.OutputDir, 0755); err != nil {
		return SavedPaths{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := time.Now().UnixNano()
	base := fmt.Sprintf("scam_report_%s_%d", sanitizeFilenameComponent(r.ID), stamp)

	var paths SavedPaths
	mdPath := filepath.Join(s.OutputDir, base+".md")
	if err := s.writeAtomic(mdPath, []byte(markdown)); err != nil {
		return SavedPaths{}, err
	}
	paths.Markdown = mdPath

	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return SavedPaths{}, fmt.Errorf("failed to encode report: %w", err)
	}
	jsonPath := filepath.Join(s.OutputDir, base+".json")
	if err := s.writeAtomic(jsonPath, raw); err != nil {
		return SavedPaths{}, err
	}
	paths.JSON = jsonPath

	return paths, nil
}

func (s *FileStorage) writeAtomic(path string, content []byte) error {
	tmpFile, err := os.CreateTemp(s.OutputDir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(content); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write temp report file: %w", err)
	}
	if err := tmpFile.Chmod(0644); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to chmod temp report file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp report file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to finalize report file: %w", err)
	}
	return nil
}
