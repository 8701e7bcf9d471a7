package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guildhall/lorepack/cmd/lorepack/app"
)

// newInspectCmd creates the inspect command.
func newInspectCmd(a *app.App) *cobra.Command {
	var showDiags bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Reload the catalog and print a load report",
		Long: `Inspect forces a full reload of every configured source and prints the
resulting load report: entry and alias counts, skipped files, dropped
aliases, and duplicate keys. Use --diagnostics to print each anomaly
individually.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lp, err := a.Lorepack()
			if err != nil {
				return err
			}

			report, err := lp.Reload(cmd.Context())
			out := cmd.OutOrStdout()
			if report != nil {
				fmt.Fprintln(out, report.String())
				if showDiags {
					for _, d := range report.Diagnostics {
						fmt.Fprintln(out, d.String())
					}
				} else if !report.Clean() {
					fmt.Fprintf(out, "%d diagnostics (rerun with --diagnostics to see them)\n", len(report.Diagnostics))
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&showDiags, "diagnostics", false, "print every load diagnostic")

	return cmd
}
