package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/locofilter/config"
	"github.com/teranos/locofilter/errors"
	"github.com/teranos/locofilter/logger"
	"github.com/teranos/locofilter/version"
)

// flagKeys maps command flags onto the config keys they override
var flagKeys = map[string]string{
	"output-dir": "filter.output_dir",
	"workers":    "filter.workers",
	"timezone":   "filter.timezone",
	"min-free":   "output.min_free_mb",
}

// Setup binds the command's flags into the config cascade, loads and
// validates the configuration and initializes the global logger.
// Runs before every command.
func Setup(cmd *cobra.Command) error {
	v := config.GetViper()
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return errors.Wrapf(err, "failed to bind --%s", flag)
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	jsonFlag, _ := cmd.Flags().GetBool("json")

	if err := logger.Initialize(cfg.Log.JSON || jsonFlag, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	logger.SetTheme(cfg.Log.Theme)
	logger.Debugw("Logger ready", "level", logger.LevelName(verbosity), "command", cmd.Name(), "commit", version.Get().Short())

	// config validate reports problems itself
	if cmd.Name() == "validate" {
		return nil
	}
	return cfg.Validate()
}
