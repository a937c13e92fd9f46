package configstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Security limits for roster files
	maxRosterSize = 1 << 20 // 1MB max roster file size
	maxPathLen    = 4096    // Maximum file path length
)

// validateRosterPath does basic path validation. Absolute paths are allowed
// since rosters normally live under the user config directory.
func validateRosterPath(path string) error {
	if path == "" {
		return errors.New("empty roster path")
	}

	if len(path) > maxPathLen {
		return fmt.Errorf("path too long: %d > %d", len(path), maxPathLen)
	}

	// Reject parent references that survive normalization
	cleanPath := filepath.Clean(path)
	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal not allowed: %s", path)
		}
	}

	// Only allow JSON roster files
	if !strings.HasSuffix(path, ".json") {
		return fmt.Errorf("only JSON roster files allowed: %s", path)
	}

	return nil
}

// readRosterFile reads a roster file with security validation.
// A missing file is reported via os.ErrNotExist so Open can start empty.
func readRosterFile(path string) ([]byte, error) {
	if err := validateRosterPath(path); err != nil {
		return nil, fmt.Errorf("invalid roster path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.Size() > maxRosterSize {
		return nil, fmt.Errorf("roster file too large: %d bytes > %d", info.Size(), maxRosterSize)
	}

	// Check if it's a regular file (not symlink, directory, etc.)
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read roster file: %w", err)
	}

	return data, nil
}

// writeRosterFile writes the roster atomically: temp file in the same
// directory, then rename over the target. The roster carries API keys, so
// the directory and file stay owner-only.
func writeRosterFile(path string, data []byte) error {
	if err := validateRosterPath(path); err != nil {
		return fmt.Errorf("invalid roster path: %w", err)
	}

	if len(data) > maxRosterSize {
		return fmt.Errorf("roster data too large: %d bytes > %d", len(data), maxRosterSize)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("cannot create roster directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".bridges-*.json")
	if err != nil {
		return fmt.Errorf("cannot create temp roster file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("cannot write temp roster file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("cannot close temp roster file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("cannot replace roster file: %w", err)
	}

	return nil
}
