package commands

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/locofilter/config"
	"github.com/teranos/locofilter/display"
	"github.com/teranos/locofilter/errors"
)

// ConfigCmd groups the configuration subcommands
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, validate and explain configuration",
	Long: `Display and check locofilter configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (LOCOFILTER_* prefix)
3. Project config (nearest locofilter.toml, searching up directories)
4. User config (~/.locofilter/config.toml)
5. System config (/etc/locofilter/config.toml)
6. Default values

Examples:
  locofilter config show                 # Show current configuration
  locofilter config show --format yaml   # Show configuration as YAML
  locofilter config get filter.workers   # Get one value
  locofilter config where                # Show where each value came from`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		return writeConfig(cmd.OutOrStdout(), cfg, format)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., filter.workers, output.min_free_mb)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := config.GetViper()
		if !v.IsSet(args[0]) {
			return errors.WithHint(errors.NewConfigurationError("configuration key %q not found", args[0]),
				"list the keys with locofilter config where")
		}
		fmt.Fprintln(cmd.OutOrStdout(), v.Get(args[0]))
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "configuration validation failed")
		}
		pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
		return nil
	},
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each configuration value comes from",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(); err != nil {
			return err
		}
		settings := config.Settings()
		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(cmd.OutOrStdout(), settings)
		}
		writeSources(cmd.OutOrStdout(), settings)
		return nil
	},
}

func init() {
	configShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func writeConfig(w io.Writer, cfg *config.Config, format string) error {
	switch format {
	case "json":
		return display.OutputJSON(w, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# locofilter configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# locofilter configuration\n%s", data)

	default:
		return errors.WithHint(errors.NewConfigurationError("unsupported format: %s", format),
			"supported formats are toml, json and yaml")
	}
	return nil
}

func writeSources(w io.Writer, settings []config.SettingInfo) {
	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(w, "  1. [default]      Built-in defaults")
	fmt.Fprintln(w, "  2. [system]       /etc/locofilter/config.toml")
	fmt.Fprintln(w, "  3. [user]         ~/.locofilter/config.toml")
	fmt.Fprintln(w, "  4. [project]      ./"+config.ProjectFile+" (searches up directories)")
	fmt.Fprintln(w, "  5. [environment]  "+config.EnvPrefix+"_* environment variables")
	fmt.Fprintln(w)

	for _, s := range settings {
		fmt.Fprintf(w, "  %-22s %-14v %s", s.Key, s.Value, pterm.Gray("["+string(s.Source)+"]"))
		if s.SourcePath != "" && s.Source != config.SourceDefault {
			fmt.Fprintf(w, " %s", s.SourcePath)
		}
		fmt.Fprintln(w)
	}
}
