package main

import (
	"fmt"

	"webcompat/internal/errors"
	"webcompat/internal/output"
	"webcompat/internal/query"
	"webcompat/internal/webfeatures"

	"github.com/spf13/cobra"
)

var (
	baselineStatus string
	baselineGroup  string
	baselineLimit  int
	baselineOffset int
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Baseline status from web-features",
	Long: `Query Baseline status of web platform features.

"high" means Widely Available, "low" Newly Available and "false" Not Baseline.`,
}

var baselineGetCmd = &cobra.Command{
	Use:   "get <feature-id>",
	Short: "Show the Baseline status of a web feature",
	Long: `Show the Baseline status of a web feature by its kebab-case id.

Examples:
  webcompat baseline get container-queries
  webcompat baseline get grid --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBaselineGet,
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List web features by Baseline status and group",
	Long: `List web features, optionally filtered by status and group.

Examples:
  webcompat baseline list --status low
  webcompat baseline list --status high --group css --limit 50`,
	Args: cobra.NoArgs,
	RunE: runBaselineList,
}

var baselineSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search web features by id, name or description",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaselineSearch,
}

func init() {
	baselineListCmd.Flags().StringVar(&baselineStatus, "status", "", "Filter by status: high, low or false")
	baselineListCmd.Flags().StringVar(&baselineGroup, "group", "", "Filter by web-features group")
	for _, c := range []*cobra.Command{baselineListCmd, baselineSearchCmd} {
		c.Flags().IntVar(&baselineLimit, "limit", 0, "Maximum number of results (default: query.defaultLimit)")
		c.Flags().IntVar(&baselineOffset, "offset", 0, "Number of results to skip")
	}

	baselineCmd.AddCommand(baselineGetCmd)
	baselineCmd.AddCommand(baselineListCmd)
	baselineCmd.AddCommand(baselineSearchCmd)
	rootCmd.AddCommand(baselineCmd)
}

func runBaselineGet(cmd *cobra.Command, args []string) error {
	return withEngine(cmd, func(env *cliEnv, engine *query.Engine) error {
		format, err := resolveFormat(formatFlag, env.cfg.Output.DefaultFormat)
		if err != nil {
			return err
		}

		r, ok := engine.GetBaselineStatus(args[0])
		if !ok {
			return errors.NewWebFeatureNotFoundError(args[0])
		}
		if r.RedirectedFrom != "" {
			env.logger.Warn(fmt.Sprintf("'%s' has moved to '%s'", r.RedirectedFrom, r.ID))
		}
		return printResponse(cmd.OutOrStdout(), format, r, func() string { return output.FormatBaseline(r) })
	})
}

func runBaselineList(cmd *cobra.Command, args []string) error {
	filter := query.BaselineFilter{Group: baselineGroup}
	if baselineStatus != "" {
		level, err := webfeatures.ParseLevel(baselineStatus)
		if err != nil {
			return errors.NewInvalidParameterError("status", "must be one of: high, low, false")
		}
		filter.Status = level.Ptr()
	}

	return withEngine(cmd, func(env *cliEnv, engine *query.Engine) error {
		format, err := resolveFormat(formatFlag, env.cfg.Output.DefaultFormat)
		if err != nil {
			return err
		}
		limit, offset, err := window(engine, baselineLimit, baselineOffset)
		if err != nil {
			return err
		}

		page := engine.ListByBaseline(filter, limit, offset)
		if page.Total == 0 && format == FormatMarkdown {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), output.NoBaselineResults())
			return err
		}
		return printResponse(cmd.OutOrStdout(), format, output.Paginated("features", page, nil),
			func() string { return output.FormatBaselineList(page, baselineStatus) })
	})
}

func runBaselineSearch(cmd *cobra.Command, args []string) error {
	q := args[0]
	return withEngine(cmd, func(env *cliEnv, engine *query.Engine) error {
		format, err := resolveFormat(formatFlag, env.cfg.Output.DefaultFormat)
		if err != nil {
			return err
		}
		limit, offset, err := window(engine, baselineLimit, baselineOffset)
		if err != nil {
			return err
		}

		page := engine.SearchWebFeatures(q, limit, offset)
		if page.Total == 0 && format == FormatMarkdown {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), output.NoBaselineResults())
			return err
		}
		return printResponse(cmd.OutOrStdout(), format,
			output.Paginated("features", page, map[string]interface{}{"query": q}),
			func() string { return output.FormatBaselineSearch(page, q) })
	})
}
