package main

import (
	"strings"

	"webcompat/internal/errors"
	"webcompat/internal/output"
	"webcompat/internal/query"

	"github.com/spf13/cobra"
)

var (
	checkBrowsers   []string
	compareBrowsers []string
)

var checkCmd = &cobra.Command{
	Use:   "check <feature>",
	Short: "Show browser support for a BCD feature",
	Long: `Show browser support for a feature identified by its BCD path.

Examples:
  webcompat check api.fetch
  webcompat check css.properties.gap --browsers chrome,safari_ios
  webcompat check api.fetch --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var compareCmd = &cobra.Command{
	Use:   "compare <feature> <feature>...",
	Short: "Compare browser support of 2-5 BCD features",
	Long: `Compare browser support of several features side by side.

Examples:
  webcompat compare css.properties.grid css.selectors.has
  webcompat compare api.fetch api.XMLHttpRequest --browsers chrome,firefox`,
	Args: cobra.RangeArgs(2, 5),
	RunE: runCompare,
}

func init() {
	checkCmd.Flags().StringSliceVar(&checkBrowsers, "browsers", nil, "Browsers to show (default: query.defaultBrowsers)")
	compareCmd.Flags().StringSliceVar(&compareBrowsers, "browsers", nil, "Browsers to compare (default: query.defaultBrowsers)")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(compareCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	return withEngine(cmd, func(env *cliEnv, engine *query.Engine) error {
		format, err := resolveFormat(formatFlag, env.cfg.Output.DefaultFormat)
		if err != nil {
			return err
		}

		fc, ok := engine.GetFeatureCompat(args[0], checkBrowsers)
		if !ok {
			return errors.NewFeatureNotFoundError(args[0])
		}
		return printResponse(cmd.OutOrStdout(), format, fc, func() string { return output.FormatCompatCheck(fc) })
	})
}

func runCompare(cmd *cobra.Command, args []string) error {
	return withEngine(cmd, func(env *cliEnv, engine *query.Engine) error {
		format, err := resolveFormat(formatFlag, env.cfg.Output.DefaultFormat)
		if err != nil {
			return err
		}

		result := engine.Compare(args, compareBrowsers)
		if len(result.Features) == 0 {
			return errors.NewWebCompatError(errors.FeatureNotFound, output.NoneFound(result.NotFound), nil, nil, nil)
		}
		if len(result.NotFound) > 0 {
			env.logger.Warn("Some features were not found", "paths", strings.Join(result.NotFound, ","))
		}
		return printResponse(cmd.OutOrStdout(), format, result, func() string { return output.FormatCompare(result) })
	})
}
