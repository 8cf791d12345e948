package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"curfmt/internal/config"
	"curfmt/internal/logging"
)

var version = "v1.2"

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// jobFlags override the job file and environment when set on the command line.
type jobFlags struct {
	inputDir      string
	glob          string
	listFile      string
	outputDir     string
	suffix        string
	policy        string
	reconcile     bool
	required      []string
	match         string
	progressEvery int
	ledgerDriver  string
	ledgerDSN     string
	report        string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	ro := &rootOptions{}
	root := &cobra.Command{
		Use:   "curfmt",
		Short: "Rewrite AWS Cost and Usage Report CSV headers to canonical snake_case",
		Long: `curfmt streams CUR exports (.csv or .csv.gz) and rewrites the header row so every
column uses the canonical lower-case, underscore-separated name, e.g.

  lineItem/UsageAmount                          -> line_item_usage_amount
  resource_tags_user:kubernetes.io/cluster/name -> resource_tags_user_kubernetes_io_cluster_name

Row order and row count are preserved. With --reconcile, required columns that
are missing from a file are appended with empty values.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&ro.configPath, "config", "c", "", "Job file (.yaml, .yml or .json)")
	root.PersistentFlags().StringVar(&ro.logLevel, "log-level", "", "Log level: debug | info | warn | error")
	root.PersistentFlags().StringVar(&ro.logFormat, "log-format", "", "Log format: console | json")

	root.AddCommand(newRunCmd(ro), newPlanCmd(ro), newNamesCmd(ro))
	return root
}

func addJobFlags(cmd *cobra.Command, jf *jobFlags) {
	f := cmd.Flags()
	f.StringVar(&jf.inputDir, "input-dir", "", "Directory relative input paths are resolved against")
	f.StringVar(&jf.glob, "glob", "", "Glob of input files, relative to --input-dir")
	f.StringVar(&jf.listFile, "list", "", "Text file listing input files, one per line")
	f.StringVar(&jf.outputDir, "output-dir", "", "Directory for outputs (default: next to each input)")
	f.StringVar(&jf.suffix, "suffix", config.DefaultOutputSuffix, "Suffix added to each output file stem")
	f.StringVar(&jf.policy, "policy", "symbol", "Header normalization: symbol | slash")
	f.BoolVar(&jf.reconcile, "reconcile", false, "Append missing required columns")
	f.StringSliceVar(&jf.required, "required", nil, "Required canonical columns (default: built-in CUR list)")
	f.StringVar(&jf.match, "match", "exact", "Required-column match: exact | fuzzy")
	f.IntVar(&jf.progressEvery, "progress-every", 100_000, "Rows between progress log lines")
	f.StringVar(&jf.ledgerDriver, "ledger-driver", "", "Run ledger: sqlite | mysql (empty disables)")
	f.StringVar(&jf.ledgerDSN, "ledger-dsn", "", "Run ledger DSN (sqlite path or mysql DSN)")
	f.StringVar(&jf.report, "report", "", "Write a JSON run summary to this path")
}

// loadConfig layers defaults, job file, environment, flags and positional
// file arguments, in that order.
func loadConfig(cmd *cobra.Command, ro *rootOptions, jf *jobFlags, args []string) (*config.Config, error) {
	cfg, err := config.Load(ro.configPath)
	if err != nil {
		return nil, err
	}
	if ro.logLevel != "" {
		cfg.Log.Level = ro.logLevel
	}
	if ro.logFormat != "" {
		cfg.Log.Format = ro.logFormat
	}
	if jf == nil {
		return cfg, nil
	}

	changed := cmd.Flags().Changed
	set := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	set("input-dir", &cfg.InputDir, jf.inputDir)
	set("glob", &cfg.Glob, jf.glob)
	set("list", &cfg.ListFile, jf.listFile)
	set("output-dir", &cfg.OutputDir, jf.outputDir)
	set("suffix", &cfg.OutputSuffix, jf.suffix)
	set("policy", &cfg.Policy, jf.policy)
	set("match", &cfg.Match, jf.match)
	set("ledger-driver", &cfg.Ledger.Driver, jf.ledgerDriver)
	set("ledger-dsn", &cfg.Ledger.DSN, jf.ledgerDSN)
	set("report", &cfg.Report, jf.report)
	if changed("reconcile") {
		cfg.Reconcile = jf.reconcile
	}
	if changed("required") {
		cfg.Required = jf.required
	}
	if changed("progress-every") {
		cfg.ProgressEvery = jf.progressEvery
	}
	if len(args) > 0 {
		cfg.Files = append(cfg.Files, args...)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("version", version)), nil
}

func printPlan(cmd *cobra.Command, cfg *config.Config) error {
	jobs, err := cfg.Jobs()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "==== curfmt %s Execution Plan ====\n", version)
	fmt.Fprintf(w, "Policy             : %s\n", cfg.Policy)
	fmt.Fprintf(w, "Reconcile          : %v\n", cfg.Reconcile)
	if cfg.Reconcile {
		fmt.Fprintf(w, "Match              : %s\n", cfg.Match)
		fmt.Fprintf(w, "Required           : %s\n", strings.Join(cfg.RequiredColumns(), ", "))
	}
	fmt.Fprintf(w, "Progress every     : %d rows\n", cfg.ProgressEvery)
	fmt.Fprintf(w, "Ledger             : %s\n", orNone(cfg.Ledger.Driver))
	fmt.Fprintf(w, "Report             : %s\n", orNone(cfg.Report))
	fmt.Fprintf(w, "Files              : %d\n", len(jobs))
	for _, j := range jobs {
		fmt.Fprintf(w, "  %s -> %s\n", j.Input, j.Output)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
