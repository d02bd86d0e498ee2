package config

import "github.com/teranos/locofilter/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Workers: 0 = default pool size, negative = invalid
	if c.Filter.Workers < 0 {
		return errors.NewConfigurationError("filter.workers must be >= 0, got %d", c.Filter.Workers)
	}

	if c.Filter.OutputDir == "" {
		return errors.NewConfigurationError("filter.output_dir cannot be empty (omit for %s)", DefaultOutputDir)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	// Free space: 0 = no check, negative = invalid
	if c.Output.MinFreeMB < 0 {
		return errors.NewConfigurationError("output.min_free_mb must be >= 0, got %d", c.Output.MinFreeMB)
	}

	switch c.Log.Theme {
	case "", "gruvbox", "everforest":
	default:
		return errors.NewConfigurationError("log.theme must be gruvbox or everforest, got %q", c.Log.Theme)
	}

	return nil
}
