package main

import (
	"fmt"
	"strings"

	"webcompat/internal/dataset"

	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage the BCD and web-features datasets",
}

var dataInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show dataset sources and cache state",
	Args:  cobra.NoArgs,
	RunE:  runDataInfo,
}

var dataPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download datasets into the local cache",
	Long: `Download URL-sourced datasets into the local cache.

Requests are conditional on the ETag and Last-Modified of the previous
download, so an unchanged dataset is not transferred again. Datasets
configured with a local path are left alone.`,
	Args: cobra.NoArgs,
	RunE: runDataPull,
}

func init() {
	dataCmd.AddCommand(dataInfoCmd)
	dataCmd.AddCommand(dataPullCmd)
	rootCmd.AddCommand(dataCmd)
}

func runDataInfo(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	format, err := resolveFormat(formatFlag, env.cfg.Output.DefaultFormat)
	if err != nil {
		return err
	}
	l, err := env.loader()
	if err != nil {
		return err
	}

	infos := l.Info()
	return printResponse(cmd.OutOrStdout(), format, infos, func() string { return formatDataInfo(infos) })
}

func runDataPull(cmd *cobra.Command, args []string) error {
	env, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	format, err := resolveFormat(formatFlag, env.cfg.Output.DefaultFormat)
	if err != nil {
		return err
	}
	l, err := env.loader()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := l.Pull(ctx)
	if err != nil {
		return err
	}
	return printResponse(cmd.OutOrStdout(), format, results, func() string { return formatPullResults(results) })
}

func formatDataInfo(infos []dataset.Info) string {
	var b strings.Builder
	b.WriteString("# Datasets\n\n")
	b.WriteString("| Dataset | Source | Cached | Size | Fetched |\n")
	b.WriteString("|---------|--------|--------|------|---------|\n")
	for _, info := range infos {
		cached, size, fetched := "n/a", "-", "-"
		if info.Kind == dataset.SourceURL {
			cached = "no"
			if info.Cached {
				cached = "yes"
				size = humanBytes(info.CacheBytes)
			}
		}
		if info.LastFetch != nil {
			fetched = info.LastFetch.FetchedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", info.Name, info.Source, cached, size, fetched)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPullResults(results []dataset.PullResult) string {
	var lines []string
	for _, r := range results {
		line := fmt.Sprintf("%s: %s", r.Name, r.Status)
		if r.Status == dataset.PullDownloaded {
			line += fmt.Sprintf(" (%s)", humanBytes(r.Bytes))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
