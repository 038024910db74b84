// =============================================================================
// Freight Tracker - File Manager Utility
// =============================================================================
//
// This module provides the file helpers used by the export commands:
//   - Output file naming with placeholders
//   - Atomic writes (temp file + rename) so a failed export never leaves a
//     truncated workbook behind
//   - Output directory creation
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName creates a file name from a format string.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {time}      - Current time (HHMMSS)
//     {<key>}     - Any key of params
//   - ext: Extension to guarantee, e.g. ".xlsx". Empty leaves the name as is.
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//
//	format: "custos_{month}_{timestamp}"
//	ext:    ".xlsx"
//	params: {"month": "2026-03"}
//	output: "custos_2026-03_20260305_143022.xlsx"
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.NewString(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// =============================================================================
// WRITING
// =============================================================================

// WriteFileAtomic writes a file through a temporary sibling and renames it
// into place once write succeeded. Parent directories are created.
//
// PARAMETERS:
//   - path: Final file path.
//   - write: Produces the content.
//
// RETURNS:
//   - An error if any step fails; the destination is then untouched.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
