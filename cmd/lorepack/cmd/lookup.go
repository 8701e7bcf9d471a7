package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guildhall/lorepack/cmd/lorepack/app"
	"github.com/guildhall/lorepack/pkg/content"
	"github.com/guildhall/lorepack/pkg/errors"
)

// newLookupCmd creates the lookup command.
func newLookupCmd(a *app.App) *cobra.Command {
	var catalogOnly, wikiOnly bool

	cmd := &cobra.Command{
		Use:   "lookup <query>...",
		Short: "Resolve a keyword to its content",
		Long: `Lookup resolves a query against the loaded content packs and prints the
matched entry's blocks in authored order. Multi-word queries are joined
with spaces before resolution.

When nothing matches and a wiki is configured, the query falls through to
a wiki search and the top hit's summary is printed instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if catalogOnly && wikiOnly {
				return errors.NewValidationError("flags", nil, "--catalog-only and --wiki-only are mutually exclusive")
			}

			query := strings.Join(args, " ")
			if wikiOnly {
				return runWikiLookup(cmd, a, query)
			}

			lp, err := a.Lorepack()
			if err != nil {
				return err
			}

			result, err := lp.Lookup(query)
			if err != nil {
				if errors.IsNoCatalog(err) {
					return fmt.Errorf("content not loaded yet: %w", err)
				}
				return err
			}

			if result.Found {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s  [%s", result.Key, result.Tier)
				if result.Score > 0 {
					fmt.Fprintf(out, " %.2f", result.Score)
				}
				fmt.Fprintln(out, "]")
				for _, block := range result.Blocks {
					if block.Type == content.BlockImage {
						fmt.Fprintf(out, "[image] %s\n", block.Value)
					} else {
						fmt.Fprintln(out, block.Value)
					}
				}
				return nil
			}

			if catalogOnly {
				return fmt.Errorf("no entry for %q: %w", query, errors.ErrNotFound)
			}
			return runWikiLookup(cmd, a, query)
		},
	}

	cmd.Flags().BoolVar(&catalogOnly, "catalog-only", false, "never fall back to the wiki")
	cmd.Flags().BoolVar(&wikiOnly, "wiki-only", false, "skip the catalog and go straight to the wiki")

	return cmd
}

// runWikiLookup searches the configured wiki and prints the top hit's
// summary, mirroring the catalog miss path.
func runWikiLookup(cmd *cobra.Command, a *app.App, query string) error {
	ctx := cmd.Context()
	client := a.Wiki()

	hits, err := client.Search(ctx, query, 1)
	if err != nil {
		return errors.WrapSource("wiki", err)
	}
	if len(hits) == 0 {
		return fmt.Errorf("no wiki page for %q: %w", query, errors.ErrNotFound)
	}

	hit := hits[0]
	summary, pageURL, err := client.PageSummary(ctx, hit.Title)
	if err != nil {
		a.Logger().Warn().Err(err).Str("title", hit.Title).Msg("Wiki summary fetch failed, printing snippet")
		summary, pageURL = hit.Snippet, hit.URL
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  [wiki]\n", hit.Title)
	if summary != "" {
		fmt.Fprintln(out, summary)
	}
	if pageURL != "" {
		fmt.Fprintln(out, pageURL)
	}
	return nil
}
