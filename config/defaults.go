package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Filter defaults
	v.SetDefault("filter.workers", 0) // 0 = derive from CPU count
	v.SetDefault("filter.output_dir", DefaultOutputDir)
	v.SetDefault("filter.timezone", "Local")

	// Output volume defaults
	v.SetDefault("output.min_free_mb", DefaultMinFreeMB)

	// Logging defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")
}
