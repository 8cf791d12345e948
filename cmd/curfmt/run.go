package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"curfmt/internal/ledger"
	"curfmt/internal/report"
	"curfmt/internal/transform"
)

func newRunCmd(ro *rootOptions) *cobra.Command {
	jf := &jobFlags{}
	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Rewrite every configured CUR file",
		Long: `Rewrites each input into <stem><suffix><ext>. Files are processed one at a time;
a file that is missing or fails mid-stream is reported and the batch continues.
The exit status is 0 once the batch has finished, whatever the per-file results.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, ro, jf, args)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts, err := cfg.TransformOptions()
			if err != nil {
				return err
			}
			jobs, err := cfg.Jobs()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			led, err := ledger.Open(ctx, cfg.Ledger.Driver, cfg.Ledger.DSN)
			if err != nil {
				return err
			}
			defer led.Close()

			start := time.Now()
			defer func() {
				logger.Info("⏱️ completed", zap.Duration("took", time.Since(start)))
			}()

			runner := &transform.Runner{
				Options: opts,
				Logger:  logger,
				OnFile: func(ctx context.Context, runID string, o transform.Outcome) {
					if err := led.Record(ctx, ledger.FromOutcome(runID, o)); err != nil {
						logger.Warn("ledger record failed", zap.String("file", o.Input), zap.Error(err))
					}
				},
			}
			summary := runner.Run(ctx, jobs)

			if cfg.Report != "" {
				if err := report.Write(cfg.Report, summary); err != nil {
					logger.Error("report not written", zap.String("path", cfg.Report), zap.Error(err))
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), report.Text(summary))
			return nil
		},
	}
	addJobFlags(cmd, jf)
	return cmd
}
