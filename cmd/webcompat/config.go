package main

import (
	"fmt"
	"os"

	"webcompat/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Configuration is read from .webcompat/config.{toml,json,yaml} in the
working directory, then from the webcompat home directory. Environment
variables prefixed with WEBCOMPAT_ override file values, e.g.
WEBCOMPAT_OUTPUT_CHARACTERLIMIT=50000.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config to .webcompat/config.toml",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowResponse is the response format for config show
type ConfigShowResponse struct {
	ConfigPath   string         `json:"configPath,omitempty"`
	UsedDefaults bool           `json:"usedDefaults"`
	Config       *config.Config `json:"config"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(workDir)
	if err != nil {
		return err
	}

	format, err := resolveFormat(formatFlag, cfg.Output.DefaultFormat)
	if err != nil {
		return err
	}

	resp := ConfigShowResponse{
		ConfigPath:   cfg.Source(),
		UsedDefaults: cfg.Source() == "",
		Config:       cfg,
	}
	return printResponse(cmd.OutOrStdout(), format, resp, func() string { return formatConfigTOML(resp) })
}

// formatConfigTOML renders the effective config as TOML under a source line.
func formatConfigTOML(resp ConfigShowResponse) string {
	source := resp.ConfigPath
	if resp.UsedDefaults {
		source = "defaults"
	}
	data, err := toml.Marshal(resp.Config)
	if err != nil {
		return fmt.Sprintf("# source: %s\n# error: %v", source, err)
	}
	return fmt.Sprintf("# source: %s\n\n%s", source, data)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return err
	}

	existing, err := config.LoadConfig(workDir)
	if err == nil && existing.Source() != "" && !configInitForce {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", existing.Source())
	}

	path, err := config.DefaultConfig().Save(workDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
