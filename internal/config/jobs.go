package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"curfmt/internal/iox"
	"curfmt/internal/transform"
)

// Jobs resolves files, glob and list_file (in that order) into input/output
// pairs. Inputs are not checked for existence; a missing file fails on its
// own when the batch reaches it.
func (c *Config) Jobs() ([]transform.Job, error) {
	var inputs []string
	for _, f := range c.Files {
		inputs = append(inputs, c.inputPath(f))
	}
	if c.Glob != "" {
		matches, err := filepath.Glob(c.inputPath(c.Glob))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", c.Glob, err)
		}
		inputs = append(inputs, matches...)
	}
	if c.ListFile != "" {
		list, err := ReadList(c.ListFile)
		if err != nil {
			return nil, fmt.Errorf("list file: %w", err)
		}
		for _, f := range list {
			inputs = append(inputs, c.inputPath(f))
		}
	}

	seen := make(map[string]struct{}, len(inputs))
	jobs := make([]transform.Job, 0, len(inputs))
	for _, in := range inputs {
		if _, ok := seen[in]; ok {
			continue
		}
		seen[in] = struct{}{}
		jobs = append(jobs, transform.Job{Input: in, Output: c.OutputPath(in)})
	}
	return jobs, nil
}

func (c *Config) inputPath(p string) string {
	if c.InputDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.InputDir, p)
}

// OutputPath places <stem><suffix><ext> in output_dir, or beside the input.
// A ".gz" suffix stays attached to the inner extension: cur.csv.gz becomes
// cur_formatted.csv.gz.
func (c *Config) OutputPath(input string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	if iox.IsGzip(base) {
		ext = filepath.Ext(strings.TrimSuffix(base, ext)) + ext
	}
	name := strings.TrimSuffix(base, ext) + c.OutputSuffix + ext

	dir := c.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

// ReadList reads a text file of paths, one per line. Blank lines and lines
// starting with '#' are skipped; order is preserved.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
