package main

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"webcompat/internal/bcd"
	"webcompat/internal/errors"
	"webcompat/internal/output"
	"webcompat/internal/query"

	"github.com/spf13/cobra"
)

var (
	searchCategory string
	searchLimit    int
	searchOffset   int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search BCD feature ids",
	Long: `Search BCD feature identifiers by keyword.

Search semantics:
  - Case-insensitive substring match on the dotted feature id
  - Results are ordered by id

Examples:
  webcompat search fetch
  webcompat search grid --category css
  webcompat search push --limit 5 --offset 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Limit to a BCD category ("+strings.Join(bcd.Categories, ", ")+")")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results (default: query.defaultLimit)")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Number of results to skip")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	q := args[0]
	if strings.TrimSpace(q) == "" || utf8.RuneCountInString(q) > 100 {
		return errors.NewInvalidParameterError("query", "must be 1-100 characters")
	}
	if searchCategory != "" && !slices.Contains(bcd.Categories, searchCategory) {
		return errors.NewInvalidParameterError("category", fmt.Sprintf("must be one of: %s", strings.Join(bcd.Categories, ", ")))
	}

	return withEngine(cmd, func(env *cliEnv, engine *query.Engine) error {
		format, err := resolveFormat(formatFlag, env.cfg.Output.DefaultFormat)
		if err != nil {
			return err
		}
		limit, offset, err := window(engine, searchLimit, searchOffset)
		if err != nil {
			return err
		}

		page := engine.Search(q, searchCategory, limit, offset)
		if page.Total == 0 && format == FormatMarkdown {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), output.NoSearchResults(q, searchCategory))
			return err
		}
		return printResponse(cmd.OutOrStdout(), format, output.Paginated("features", page, nil),
			func() string { return output.FormatSearch(page, q) })
	})
}
