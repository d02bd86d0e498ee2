package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/locofilter/errors"
)

// EnvPrefix prefixes environment overrides, e.g. LOCOFILTER_FILTER_WORKERS
const EnvPrefix = "LOCOFILTER"

// ProjectFile is searched for from the working directory upwards
const ProjectFile = "locofilter.toml"

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return globalConfig, nil
}

// GetViper returns the Viper instance, e.g. for binding command flags
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.MarkConfiguration(errors.Wrap(err, "failed to unmarshal config"))
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of the defaults
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Defaults only; no environment binding for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.MarkConfiguration(errors.Wrapf(err, "failed to read config file %s", configPath))
	}
	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	// Environment overrides: filter.workers -> LOCOFILTER_FILTER_WORKERS
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig walks up from the working directory looking for locofilter.toml.
// Returns the first path found, or empty string if none.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// configCascade lists candidate config files, lowest precedence first
func configCascade() []SourceInfo {
	cascade := []SourceInfo{{Source: SourceSystem, Path: "/etc/locofilter/config.toml"}}

	if homeDir, err := os.UserHomeDir(); err == nil {
		cascade = append(cascade, SourceInfo{
			Source: SourceUser,
			Path:   filepath.Join(homeDir, ".locofilter", "config.toml"),
		})
	}

	if project := findProjectConfig(); project != "" {
		cascade = append(cascade, SourceInfo{Source: SourceProject, Path: project})
	}
	return cascade
}

// mergeConfigFiles merges configuration files in precedence order.
// Precedence (lowest to highest): system < user < project < env vars < flags.
// Files are merged as config layer values so env vars and flags still win.
func mergeConfigFiles(v *viper.Viper) {
	ConfigSources = map[string]SourceInfo{}

	for _, candidate := range configCascade() {
		if _, err := os.Stat(candidate.Path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(candidate.Path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}

		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range tempViper.AllKeys() {
			ConfigSources[key] = candidate
		}
	}
}
