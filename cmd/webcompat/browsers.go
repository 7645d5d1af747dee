package main

import (
	"fmt"
	"slices"
	"strings"

	"webcompat/internal/bcd"
	"webcompat/internal/errors"
	"webcompat/internal/output"
	"webcompat/internal/query"

	"github.com/spf13/cobra"
)

var (
	supportCategory string
	supportLimit    int
	supportOffset   int
)

var browsersCmd = &cobra.Command{
	Use:   "browsers",
	Short: "List browsers known to BCD",
	Args:  cobra.NoArgs,
	RunE:  runBrowsers,
}

var supportCmd = &cobra.Command{
	Use:   "support <browser> <version>",
	Short: "List features first supported in a browser version",
	Long: `List features whose support in a browser was added in exactly the
given version.

Examples:
  webcompat support chrome 120
  webcompat support safari 17.4 --category css`,
	Args: cobra.ExactArgs(2),
	RunE: runSupport,
}

func init() {
	supportCmd.Flags().StringVar(&supportCategory, "category", "", "Limit to a BCD category")
	supportCmd.Flags().IntVar(&supportLimit, "limit", 0, "Maximum number of results (default: query.defaultLimit)")
	supportCmd.Flags().IntVar(&supportOffset, "offset", 0, "Number of results to skip")
	rootCmd.AddCommand(browsersCmd)
	rootCmd.AddCommand(supportCmd)
}

func runBrowsers(cmd *cobra.Command, args []string) error {
	return withEngine(cmd, func(env *cliEnv, engine *query.Engine) error {
		format, err := resolveFormat(formatFlag, env.cfg.Output.DefaultFormat)
		if err != nil {
			return err
		}

		browsers := engine.ListBrowsers()
		resp := output.Listing{"total": len(browsers), "browsers": browsers}
		return printResponse(cmd.OutOrStdout(), format, resp, func() string { return output.FormatBrowsers(browsers) })
	})
}

func runSupport(cmd *cobra.Command, args []string) error {
	browser, version := args[0], args[1]
	if supportCategory != "" && !slices.Contains(bcd.Categories, supportCategory) {
		return errors.NewInvalidParameterError("category", fmt.Sprintf("must be one of: %s", strings.Join(bcd.Categories, ", ")))
	}

	return withEngine(cmd, func(env *cliEnv, engine *query.Engine) error {
		format, err := resolveFormat(formatFlag, env.cfg.Output.DefaultFormat)
		if err != nil {
			return err
		}
		limit, offset, err := window(engine, supportLimit, supportOffset)
		if err != nil {
			return err
		}
		if !engine.HasBrowser(browser) {
			env.logger.Warn("Unknown browser", "browser", browser)
		}

		page := engine.FindByBrowserVersion(browser, version, supportCategory, limit, offset)
		if page.Total == 0 && format == FormatMarkdown {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), output.NoSupportResults(browser, version, supportCategory))
			return err
		}
		resp := output.Paginated("features", page, map[string]interface{}{"browser": browser, "version": version})
		return printResponse(cmd.OutOrStdout(), format, resp,
			func() string { return output.FormatCheckSupport(browser, version, page) })
	})
}
