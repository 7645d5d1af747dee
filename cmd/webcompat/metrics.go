package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"webcompat/internal/storage"

	"github.com/spf13/cobra"
)

var (
	metricsDays int
	metricsTool string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show recorded MCP tool metrics",
	Long: `Display aggregated metrics of MCP tool calls recorded by "webcompat mcp".

Examples:
  webcompat metrics                    # Last 7 days
  webcompat metrics --days=30          # Last 30 days
  webcompat metrics --tool=compat_search`,
	Args: cobra.NoArgs,
	RunE: runMetrics,
}

func init() {
	metricsCmd.Flags().IntVar(&metricsDays, "days", 7, "Number of days to include (1-90)")
	metricsCmd.Flags().StringVar(&metricsTool, "tool", "", "Filter to specific tool")
	rootCmd.AddCommand(metricsCmd)
}

// MetricsResponseCLI is the response format for the metrics command
type MetricsResponseCLI struct {
	Period       string                   `json:"period"`
	Since        string                   `json:"since"`
	TotalRecords int64                    `json:"totalRecords"`
	OldestRecord string                   `json:"oldestRecord,omitempty"`
	NewestRecord string                   `json:"newestRecord,omitempty"`
	Tools        []*storage.ToolAggregate `json:"tools"`
}

func runMetrics(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	format, err := resolveFormat(formatFlag, env.cfg.Output.DefaultFormat)
	if err != nil {
		return err
	}

	db := env.openDB()
	if db == nil {
		return fmt.Errorf("metrics database not available")
	}

	// Clamp days to reasonable range
	if metricsDays < 1 {
		metricsDays = 1
	}
	if metricsDays > 90 {
		metricsDays = 90
	}
	since := time.Now().AddDate(0, 0, -metricsDays)

	aggregates, err := db.GetToolAggregates(since)
	if err != nil {
		return fmt.Errorf("get metrics: %w", err)
	}
	totalRecords, oldest, newest, err := db.GetMetricsStats()
	if err != nil {
		return fmt.Errorf("get metrics stats: %w", err)
	}

	resp := MetricsResponseCLI{
		Period:       fmt.Sprintf("last %d days", metricsDays),
		Since:        since.Format("2006-01-02"),
		TotalRecords: totalRecords,
		Tools:        make([]*storage.ToolAggregate, 0, len(aggregates)),
	}
	if oldest != nil {
		resp.OldestRecord = oldest.Format("2006-01-02 15:04:05")
	}
	if newest != nil {
		resp.NewestRecord = newest.Format("2006-01-02 15:04:05")
	}
	for name, agg := range aggregates {
		if metricsTool != "" && name != metricsTool {
			continue
		}
		resp.Tools = append(resp.Tools, agg)
	}
	sort.Slice(resp.Tools, func(i, j int) bool { return resp.Tools[i].ToolName < resp.Tools[j].ToolName })

	return printResponse(cmd.OutOrStdout(), format, resp, func() string { return formatMetricsResponse(resp) })
}

func formatMetricsResponse(resp MetricsResponseCLI) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tool Metrics (%s)\n\n", resp.Period)
	fmt.Fprintf(&b, "Records: %d", resp.TotalRecords)
	if resp.OldestRecord != "" {
		fmt.Fprintf(&b, " (%s to %s)", resp.OldestRecord, resp.NewestRecord)
	}
	b.WriteString("\n\n")
	if len(resp.Tools) == 0 {
		b.WriteString("No tool calls recorded in this period.")
		return b.String()
	}

	b.WriteString("| Tool | Calls | Errors | Truncated | Avg ms |\n")
	b.WriteString("|------|-------|--------|-----------|--------|\n")
	for _, t := range resp.Tools {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %.1f |\n", t.ToolName, t.CallCount, t.ErrorCount, t.TruncatedCount, t.AvgLatencyMs())
	}
	return strings.TrimRight(b.String(), "\n")
}
