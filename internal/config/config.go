// Package config resolves a curfmt run: which files to rewrite, where the
// outputs go, and how headers are normalized and reconciled.
//
// Values come from a YAML or JSON job file, then CURFMT_* environment
// variables (optionally from a .env file), then command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"curfmt/internal/mapper"
	"curfmt/internal/normalize"
	"curfmt/internal/schema"
	"curfmt/internal/transform"
)

const DefaultOutputSuffix = "_formatted"

type Config struct {
	InputDir      string       `yaml:"input_dir" json:"input_dir"`
	Files         []string     `yaml:"files" json:"files"`
	Glob          string       `yaml:"glob" json:"glob"`
	ListFile      string       `yaml:"list_file" json:"list_file"`
	OutputDir     string       `yaml:"output_dir" json:"output_dir"`
	OutputSuffix  string       `yaml:"output_suffix" json:"output_suffix"`
	Policy        string       `yaml:"policy" json:"policy"`
	Reconcile     bool         `yaml:"reconcile" json:"reconcile"`
	Required      []string     `yaml:"required" json:"required"`
	Match         string       `yaml:"match" json:"match"`
	ProgressEvery int          `yaml:"progress_every" json:"progress_every"`
	Report        string       `yaml:"report" json:"report"`
	Ledger        LedgerConfig `yaml:"ledger" json:"ledger"`
	Log           LogConfig    `yaml:"log" json:"log"`
}

type LedgerConfig struct {
	// Driver is "", "sqlite" or "mysql". Empty disables the ledger.
	Driver string `yaml:"driver" json:"driver"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

func Defaults() *Config {
	return &Config{
		OutputSuffix:  DefaultOutputSuffix,
		Policy:        string(normalize.PolicySymbol),
		Match:         string(mapper.MatchExact),
		ProgressEvery: transform.DefaultProgressEvery,
		Log:           LogConfig{Level: "info", Format: "console"},
	}
}

// Load builds a Config from defaults, the optional job file at path and the
// environment. It does not validate.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // optional

	cfg := Defaults()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	case ".json":
		api := sonic.Config{DisallowUnknownFields: true}.Froze()
		if err := api.Unmarshal(b, c); err != nil {
			return err
		}
	default:
		return errors.New("unsupported config format (use .yaml, .yml or .json)")
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.InputDir = getenv("CURFMT_INPUT_DIR", c.InputDir)
	c.Glob = getenv("CURFMT_GLOB", c.Glob)
	c.ListFile = getenv("CURFMT_LIST_FILE", c.ListFile)
	c.OutputDir = getenv("CURFMT_OUTPUT_DIR", c.OutputDir)
	c.OutputSuffix = getenv("CURFMT_OUTPUT_SUFFIX", c.OutputSuffix)
	c.Policy = getenv("CURFMT_POLICY", c.Policy)
	c.Match = getenv("CURFMT_MATCH", c.Match)
	c.Report = getenv("CURFMT_REPORT", c.Report)
	c.Ledger.Driver = getenv("CURFMT_LEDGER_DRIVER", c.Ledger.Driver)
	c.Ledger.DSN = getenv("CURFMT_LEDGER_DSN", c.Ledger.DSN)
	c.Log.Level = getenv("CURFMT_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getenv("CURFMT_LOG_FORMAT", c.Log.Format)
	if v := os.Getenv("CURFMT_FILES"); v != "" {
		c.Files = splitList(v)
	}
	if v := os.Getenv("CURFMT_REQUIRED"); v != "" {
		c.Required = splitList(v)
	}

	var err error
	if c.Reconcile, err = getenvBool("CURFMT_RECONCILE", c.Reconcile); err != nil {
		return err
	}
	if c.ProgressEvery, err = getenvInt("CURFMT_PROGRESS_EVERY", c.ProgressEvery); err != nil {
		return err
	}
	return nil
}

// Validate checks every setting a run depends on.
func (c *Config) Validate() error {
	if _, err := normalize.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if _, err := mapper.ParseMatch(c.Match); err != nil {
		return err
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("config: progress_every must be >= 0 (got %d)", c.ProgressEvery)
	}
	if len(c.Files) == 0 && c.Glob == "" && c.ListFile == "" {
		return errors.New("config: no inputs (set files, glob or list_file)")
	}
	if c.OutputSuffix == "" && c.OutputDir == "" {
		return errors.New("config: output_suffix or output_dir is required so outputs do not overwrite inputs")
	}
	switch strings.ToLower(c.Ledger.Driver) {
	case "":
	case "sqlite", "mysql":
		if c.Ledger.DSN == "" {
			return fmt.Errorf("config: ledger driver %q needs a dsn", c.Ledger.Driver)
		}
	default:
		return fmt.Errorf("config: unknown ledger driver %q (use sqlite or mysql)", c.Ledger.Driver)
	}
	return nil
}

// RequiredColumns returns the reconciliation list, or nil when reconciliation
// is off. An empty list with reconciliation on selects schema.DefaultRequired.
func (c *Config) RequiredColumns() []string {
	if !c.Reconcile {
		return nil
	}
	if len(c.Required) == 0 {
		return schema.DefaultRequired()
	}
	return append([]string(nil), c.Required...)
}

// TransformOptions converts the config into pipeline options.
func (c *Config) TransformOptions() (transform.Options, error) {
	policy, err := normalize.ParsePolicy(c.Policy)
	if err != nil {
		return transform.Options{}, err
	}
	fn, err := normalize.ForPolicy(policy)
	if err != nil {
		return transform.Options{}, err
	}
	match, err := mapper.ParseMatch(c.Match)
	if err != nil {
		return transform.Options{}, err
	}
	return transform.Options{
		Normalizer:    fn,
		Reconcile:     c.Reconcile,
		Required:      c.RequiredColumns(),
		Match:         match,
		ProgressEvery: c.ProgressEvery,
	}, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return n, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
