package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guildhall/lorepack/cmd/lorepack/app"
)

// newListCmd creates the list command.
func newListCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [prefix]",
		Short: "List catalog keys",
		Long: `List prints every key in the catalog in stable order, one per line.
An optional prefix argument narrows the listing to keys starting with it
(matched case-insensitively).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lp, err := a.Lorepack()
			if err != nil {
				return err
			}

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}

			keys := lp.Keys(prefix)
			out := cmd.OutOrStdout()
			for _, key := range keys {
				fmt.Fprintln(out, key)
			}
			fmt.Fprintf(out, "%d keys\n", len(keys))
			return nil
		},
	}
}
