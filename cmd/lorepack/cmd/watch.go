package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guildhall/lorepack/cmd/lorepack/app"
	"github.com/guildhall/lorepack/pkg/catalog"
)

// newWatchCmd creates the watch command.
func newWatchCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch pack locations and reload on change",
		Long: `Watch loads the catalog, then watches every configured pack directory and
flat map file, reloading the catalog whenever content changes on disk.
It runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			lp, err := a.Lorepack()
			if err != nil {
				return err
			}

			lp.OnReload(func(_, _ *catalog.Catalog, report *catalog.Report) {
				a.Logger().Info().Str("report", report.String()).Msg("Catalog reloaded")
			})

			if err := lp.WatchOn(ctx); err != nil {
				return err
			}
			defer lp.WatchOff()

			fmt.Fprintln(cmd.OutOrStdout(), "watching for changes, press Ctrl-C to stop")
			<-ctx.Done()
			return nil
		},
	}
}
