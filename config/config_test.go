package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/locofilter/errors"
)

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance without user/system config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Filter.Workers)
	assert.Equal(t, DefaultOutputDir, cfg.Filter.OutputDir)
	assert.Equal(t, "Local", cfg.Filter.Timezone)
	assert.Equal(t, DefaultMinFreeMB, cfg.Output.MinFreeMB)
	assert.False(t, cfg.Log.JSON)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Filter: FilterConfig{OutputDir: DefaultOutputDir, Timezone: "Local"},
			Output: OutputConfig{MinFreeMB: 64},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero workers is valid (default pool)", func(c *Config) { c.Filter.Workers = 0 }, false},
		{"explicit workers", func(c *Config) { c.Filter.Workers = 8 }, false},
		{"negative workers is invalid", func(c *Config) { c.Filter.Workers = -1 }, true},
		{"empty output dir is invalid", func(c *Config) { c.Filter.OutputDir = "" }, true},
		{"utc zone", func(c *Config) { c.Filter.Timezone = "UTC" }, false},
		{"unknown zone is invalid", func(c *Config) { c.Filter.Timezone = "Mars/Olympus" }, true},
		{"zero free space disables the check", func(c *Config) { c.Output.MinFreeMB = 0 }, false},
		{"negative free space is invalid", func(c *Config) { c.Output.MinFreeMB = -5 }, true},
		{"known theme", func(c *Config) { c.Log.Theme = "gruvbox" }, false},
		{"unknown theme is invalid", func(c *Config) { c.Log.Theme = "solarized" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsConfigurationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Config{Filter: FilterConfig{Timezone: "Local"}}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Filter.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[filter]
workers = 6
output_dir = "/tmp/out"

[log]
json = true
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Filter.Workers)
	assert.Equal(t, "/tmp/out", cfg.Filter.OutputDir)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 64, cfg.Output.MinFreeMB, "unset keys keep their defaults")
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

// isolate points HOME and the working directory at fresh temp dirs
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(project))
	t.Cleanup(func() { os.Chdir(wd) })
	return home, project
}

func TestCascadePrecedence(t *testing.T) {
	home, project := isolate(t)

	userDir := filepath.Join(home, ".locofilter")
	require.NoError(t, os.MkdirAll(userDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "config.toml"), []byte(`
[filter]
workers = 2
timezone = "UTC"
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, ProjectFile), []byte(`
[filter]
workers = 4
`), 0644))
	t.Setenv("LOCOFILTER_OUTPUT_MIN_FREE_MB", "128")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Filter.Workers, "project file wins over user file")
	assert.Equal(t, "UTC", cfg.Filter.Timezone, "user file wins over defaults")
	assert.Equal(t, 128, cfg.Output.MinFreeMB, "environment wins over defaults")

	sources := map[string]ConfigSource{}
	for _, s := range Settings() {
		sources[s.Key] = s.Source
	}
	assert.Equal(t, SourceProject, sources["filter.workers"])
	assert.Equal(t, SourceUser, sources["filter.timezone"])
	assert.Equal(t, SourceEnvironment, sources["output.min_free_mb"])
	assert.Equal(t, SourceDefault, sources["log.theme"])
}

func TestEnvironmentBeatsFiles(t *testing.T) {
	_, project := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(project, ProjectFile), []byte(`
[filter]
workers = 4
`), 0644))
	t.Setenv("LOCOFILTER_FILTER_WORKERS", "9")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Filter.Workers)
}

func TestProjectConfigFoundFromSubdirectory(t *testing.T) {
	_, project := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(project, ProjectFile), []byte(`
[filter]
output_dir = "elsewhere"
`), 0644))
	sub := filepath.Join(project, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))
	require.NoError(t, os.Chdir(sub))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", cfg.Filter.OutputDir)
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "LOCOFILTER_FILTER_OUTPUT_DIR", EnvVar("filter.output_dir"))
}
