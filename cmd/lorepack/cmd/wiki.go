package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guildhall/lorepack/cmd/lorepack/app"
	"github.com/guildhall/lorepack/pkg/errors"
)

// newWikiCmd creates the wiki command.
func newWikiCmd(a *app.App) *cobra.Command {
	var limit int
	var summaries bool

	cmd := &cobra.Command{
		Use:   "wiki <query>...",
		Short: "Search the configured wiki",
		Long: `Wiki runs a full-text search against the configured MediaWiki-compatible
site and prints the hits. With --summaries each hit's intro extract is
fetched and printed under its title.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := a.Wiki()
			query := strings.Join(args, " ")

			hits, err := client.Search(ctx, query, limit)
			if err != nil {
				return errors.WrapSource("wiki", err)
			}
			if len(hits) == 0 {
				return fmt.Errorf("no wiki page for %q: %w", query, errors.ErrNotFound)
			}

			out := cmd.OutOrStdout()
			for i, hit := range hits {
				fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, hit.Title, hit.URL)
				if summaries {
					summary, _, err := client.PageSummary(ctx, hit.Title)
					if err != nil {
						a.Logger().Warn().Err(err).Str("title", hit.Title).Msg("Wiki summary fetch failed")
						continue
					}
					if summary != "" {
						fmt.Fprintf(out, "   %s\n", summary)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of hits (default from config)")
	cmd.Flags().BoolVar(&summaries, "summaries", false, "fetch and print each hit's intro summary")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if limit <= 0 {
			limit = a.Config().WikiLimit
		}
	}

	return cmd
}
