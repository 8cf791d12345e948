// Package report renders a batch summary as JSON (for machines) or text (for
// the terminal).
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dustin/go-humanize"

	"curfmt/internal/transform"
)

// Write stores s as indented JSON at path, creating the parent directory.
func Write(path string, s transform.Summary) error {
	b, err := sonic.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// Read loads a summary written by Write.
func Read(path string) (transform.Summary, error) {
	var s transform.Summary
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := sonic.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("report: decode %s: %w", path, err)
	}
	return s, nil
}

// Text is a short per-file listing followed by totals.
func Text(s transform.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", s.RunID)
	for _, f := range s.Files {
		switch f.Status {
		case transform.StatusOK:
			r := f.Result
			fmt.Fprintf(&b, "  ok      %s -> %s (%s rows, %d cols, %s)\n",
				f.Input, f.Output, humanize.Comma(r.Rows), r.OutputColumns, humanize.Bytes(uint64(r.Bytes)))
			if len(r.Appended) > 0 {
				fmt.Fprintf(&b, "          appended: %s\n", strings.Join(r.Appended, ", "))
			}
		default:
			fmt.Fprintf(&b, "  %-7s %s: %s\n", f.Status, f.Input, f.Error)
		}
	}
	fmt.Fprintf(&b, "%d ok, %d failed, %d skipped; %s rows, %s in %s\n",
		s.Succeeded, s.Failed, s.Skipped, humanize.Comma(s.Rows), humanize.Bytes(uint64(s.Bytes)), s.Duration.Round(time.Millisecond))
	return b.String()
}
