// Package fsutil provides output-path collision avoidance and file copying
// for the conversion pipeline.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UniquePath returns a path in the same directory as candidate that does not
// currently exist. If candidate is free it is returned unchanged; otherwise a
// counter is appended before the extension: "name (1).ext", "name (2).ext", …
//
// The check-then-use window is not safe against another process creating the
// same path concurrently; acceptable for a single-user desktop tool.
func UniquePath(candidate string) string {
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate
	}

	dir := filepath.Dir(candidate)
	ext := filepath.Ext(candidate)
	stem := strings.TrimSuffix(filepath.Base(candidate), ext)

	for i := 1; ; i++ {
		next := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if _, err := os.Stat(next); os.IsNotExist(err) {
			return next
		}
	}
}

// CopyFile copies src to dst byte for byte. dst must not already exist as a
// file we care about; on write failure the partial destination is removed.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to finalize destination file: %w", err)
	}

	return nil
}
