package cmd

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uche09/rolodex/internal/search"
)

func newSearchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search contacts by name",
		Long: `Fuzzy-search contact names and return the closest matches,
best first. Queries longer than 30 characters are rejected.

Examples:
  rolodex search ada
  rolodex search "ade lovelace" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			results, err := search.NewEngine(a.store).FuzzySearch(cmd.Context(), query)
			if err != nil {
				return err
			}
			slog.Debug("search_done", slog.String("query", query), slog.Int("hits", len(results)))

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			a.out.ContactList(results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}

func newSearchDomainCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search-domain <domain>",
		Short: "List contacts with an email domain",
		Long: `List every contact whose email address uses the given domain.
The match is exact and case-insensitive; domains longer than 15
characters are rejected.

Examples:
  rolodex search-domain example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			results, err := search.NewEngine(a.store).SearchByDomain(args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			a.out.ContactList(results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}
