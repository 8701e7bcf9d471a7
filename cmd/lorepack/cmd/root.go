// Package cmd implements the lorepack CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guildhall/lorepack/cmd/lorepack/app"
)

// Execute builds the command tree and runs it with the given arguments.
// This is the main entry point called from main.go.
func Execute(ctx context.Context, version, commit, date string) error {
	application, err := app.New(version, commit, date)
	if err != nil {
		return err
	}

	rootCmd := newRootCmd(application, version, commit, date)
	rootCmd.SetArgs(os.Args[1:])
	return rootCmd.ExecuteContext(ctx)
}

// newRootCmd creates the root cobra command with all subcommands.
func newRootCmd(a *app.App, version, commit, date string) *cobra.Command {
	var verbose, quiet bool

	rootCmd := &cobra.Command{
		Use:     "lorepack",
		Short:   "Keyword lookup over pre-authored content packs",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Long: `Lorepack resolves a keyword into a pre-authored, ordered sequence of
text and image content drawn from on-disk content packs.

Resolution is tiered: exact key, alias, prefix/substring, then fuzzy
similarity. When nothing matches, the lookup command can fall back to a
configured wiki search.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.Config().Verbose = verbose
			a.Config().Quiet = quiet
			a.RebuildLogger()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")

	rootCmd.AddCommand(
		newLookupCmd(a),
		newListCmd(a),
		newInspectCmd(a),
		newWikiCmd(a),
		newWatchCmd(a),
		newVersionCmd(version, commit, date),
	)

	return rootCmd
}
