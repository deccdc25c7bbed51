package appcfg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds application-wide settings. Language is "en" or "ru",
// LogLevel one of debug|info|warn|error, Cores 0 means all CPUs.
type Config struct {
	Language             string `yaml:"language" env:"VANITY_LANGUAGE,overwrite"`
	LogLevel             string `yaml:"log_level" env:"VANITY_LOG_LEVEL,overwrite"`
	HideSecretsInConsole bool   `yaml:"hide_secrets_in_console" env:"VANITY_HIDE_SECRETS,overwrite"`
	Cores                int    `yaml:"cores" env:"VANITY_CORES,overwrite"`
	LogsDir              string `yaml:"logs_dir" env:"VANITY_LOGS_DIR,overwrite"`
	EnvFile              string `yaml:"env_file" env:"VANITY_ENV_FILE,overwrite"`
}

func Default() *Config {
	return &Config{
		Language: "en",
		LogLevel: "info",
		LogsDir:  "logs",
		EnvFile:  ".env",
	}
}

// Load reads the YAML file at path, then applies VANITY_* environment
// overrides. A missing file is not an error: defaults are used instead.
func Load(ctx context.Context, path string) (*Config, error) {
	c := &Config{}
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(c); err != nil {
			return nil, fmt.Errorf("decode app yaml %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("open app config %q: %w", path, err)
	}

	if err := envconfig.Process(ctx, c); err != nil {
		return nil, fmt.Errorf("app config env: %w", err)
	}

	// defaults
	d := Default()
	if c.Language == "" {
		c.Language = d.Language
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogsDir == "" {
		c.LogsDir = d.LogsDir
	}
	if c.EnvFile == "" {
		c.EnvFile = d.EnvFile
	}
	if c.Cores < 0 {
		return nil, fmt.Errorf("cores must be >= 0, got %d", c.Cores)
	}
	return c, nil
}
