package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"curfmt/internal/csvin"
	"curfmt/internal/iox"
	"curfmt/internal/mapper"
)

func newNamesCmd(ro *rootOptions) *cobra.Command {
	jf := &jobFlags{}
	var file string
	cmd := &cobra.Command{
		Use:   "names [tokens...]",
		Short: "Print the canonical name of each header token",
		Long: `Prints "raw -> canonical" for the given tokens, or for the header of --file.
With --reconcile, required columns that would be appended are listed last.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, ro, jf, nil)
			if err != nil {
				return err
			}
			opts, err := cfg.TransformOptions()
			if err != nil {
				return err
			}

			raw := args
			if file != "" {
				if raw, err = readHeader(file); err != nil {
					return err
				}
			}
			if len(raw) == 0 {
				return fmt.Errorf("names: pass header tokens or --file")
			}

			plan := mapper.Build(raw, opts.Normalizer, opts.Required, opts.Match)
			w := cmd.OutOrStdout()
			for i, name := range plan.Output {
				if src := plan.Source[i]; src >= 0 {
					fmt.Fprintf(w, "%s -> %s\n", raw[src], name)
				} else {
					fmt.Fprintf(w, "+ %s (appended)\n", name)
				}
			}
			for _, d := range plan.Duplicates() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is produced by more than one column\n", d)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read tokens from the header of this CSV (.csv or .csv.gz)")
	addJobFlags(cmd, jf)
	return cmd
}

func readHeader(path string) ([]string, error) {
	in, err := iox.OpenAuto(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	h, err := csvin.New(in).Header()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: no header line", path)
	}
	return h, err
}
