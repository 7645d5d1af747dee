package main

import (
	"time"

	"webcompat/internal/mcp"
	"webcompat/internal/version"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol (MCP) server.

The server loads BCD and web-features once, then answers JSON-RPC 2.0
requests on stdin/stdout. Logs go to stderr and, when logging.file is set,
to a rotating log file.

The server exposes the following tools:
  - compat_check: Browser support for one BCD feature
  - compat_compare: Side-by-side support for 2-5 features
  - compat_search: Find BCD feature ids by keyword
  - compat_get_baseline: Baseline status of a web feature
  - compat_list_baseline: Web features by Baseline status and group
  - compat_search_baseline: Find web-features ids by keyword
  - compat_list_browsers: Browsers known to BCD
  - compat_check_support: Features added in a browser version
  - compat_status: Loaded dataset versions and index sizes
  - compat_tool_metrics: Per-tool call statistics of this session

This command is typically invoked by MCP clients and not directly by users.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	// stdout carries the protocol
	logger := env.loggers.MCPLogger(cmd.ErrOrStderr())
	env.logger = logger

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	engine, err := env.engine(ctx)
	if err != nil {
		logger.Error("Failed to load datasets", "error", err.Error())
		return err
	}
	status := engine.Status()
	logger.Info("Datasets loaded",
		"bcdVersion", status.BCDVersion,
		"paths", status.IndexedPaths,
		"webFeatures", status.WebFeatures,
		"ms", time.Since(start).Milliseconds(),
	)

	var metrics *mcp.ToolMetrics
	if env.cfg.Metrics.Enabled {
		metrics = mcp.NewToolMetrics(env.openDB(), logger)
		retention := time.Duration(env.cfg.Metrics.RetentionDays) * 24 * time.Hour
		if n, err := metrics.Cleanup(retention); err != nil {
			logger.Warn("Failed to clean up old metrics", "error", err.Error())
		} else if n > 0 {
			logger.Info("Removed old metrics", "records", n)
		}
		defer metrics.Flush()
	}

	server := mcp.NewMCPServer(version.Version, engine, logger, mcp.Options{
		CharacterLimit: env.cfg.Output.CharacterLimit,
		Metrics:        metrics,
	})

	// SIGINT and SIGTERM end the session even while stdin stays open
	if err := server.Serve(ctx); err != nil {
		logger.Error("MCP server error", "error", err.Error())
		return err
	}
	return nil
}
