package main

import "github.com/spf13/cobra"

func newPlanCmd(ro *rootOptions) *cobra.Command {
	jf := &jobFlags{}
	cmd := &cobra.Command{
		Use:   "plan [files...]",
		Short: "Show the resolved execution plan and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, ro, jf, args)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return printPlan(cmd, cfg)
		},
	}
	addJobFlags(cmd, jf)
	return cmd
}
