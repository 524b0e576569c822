package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/stargazer/internal/logtail"
)

const defaultLogLines = 40

func newLogsCommand(st *rootState) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the diagnostics log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := st.loadConfig()
			if err != nil {
				return err
			}
			tail, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tail) == 0 {
				warningColour.Fprintf(out, "No log entries in %s\n", cfg.LogFile)
				return nil
			}
			for _, line := range tail {
				fmt.Fprintln(out, logtail.Colorize(line))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", defaultLogLines, "number of lines to show (0 for all)")
	return cmd
}
