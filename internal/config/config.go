package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/courseforge/courseforge/internal/canvas"
	"github.com/courseforge/courseforge/internal/executor"
)

// DeployConfig holds everything the planner and executor need to talk to
// one Canvas course. It is an explicit value passed into constructors;
// there is no process-wide configuration singleton.
type DeployConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	Token    string `mapstructure:"token"`
	CourseID string `mapstructure:"course_id"`

	// RecordDB is the SQLite file holding deployment records. Empty
	// disables persistence.
	RecordDB string `mapstructure:"record_db"`

	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	Concurrency       int     `mapstructure:"concurrency"`

	MaxRetries    int     `mapstructure:"max_retries"`
	BackoffMs     int     `mapstructure:"backoff_ms"`
	BackoffFactor float64 `mapstructure:"backoff_factor"`
	TimeoutMs     int     `mapstructure:"timeout_ms"`
}

// Default returns a DeployConfig with the stock rate and retry budget.
func Default() DeployConfig {
	return DeployConfig{
		RecordDB:          defaultRecordDB(),
		RequestsPerSecond: 5,
		Burst:             5,
		Concurrency:       5,
		MaxRetries:        2,
		BackoffMs:         500,
		BackoffFactor:     2,
		TimeoutMs:         15000,
	}
}

func defaultRecordDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".courseforge", "records.db")
}

// Load reads configuration from an optional file plus COURSEFORGE_* env
// variables, falling back to defaults. When file is empty, a
// courseforge.yaml in the working directory or ~/.courseforge is used if
// present.
func Load(file string) (DeployConfig, error) {
	cfg := Default()

	v := viper.New()
	v.SetDefault("record_db", cfg.RecordDB)
	v.SetDefault("requests_per_second", cfg.RequestsPerSecond)
	v.SetDefault("burst", cfg.Burst)
	v.SetDefault("concurrency", cfg.Concurrency)
	v.SetDefault("max_retries", cfg.MaxRetries)
	v.SetDefault("backoff_ms", cfg.BackoffMs)
	v.SetDefault("backoff_factor", cfg.BackoffFactor)
	v.SetDefault("timeout_ms", cfg.TimeoutMs)
	v.SetDefault("base_url", "")
	v.SetDefault("token", "")
	v.SetDefault("course_id", "")

	v.SetEnvPrefix("COURSEFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("courseforge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".courseforge"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return DeployConfig{}, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return DeployConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// ValidateRemote checks the fields a live deployment cannot do without.
// Dry runs don't need them.
func (c DeployConfig) ValidateRemote() error {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "base_url")
	}
	if c.Token == "" {
		missing = append(missing, "token")
	}
	if c.CourseID == "" {
		missing = append(missing, "course_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Canvas returns the client configuration slice of the deploy config.
func (c DeployConfig) Canvas() canvas.Config {
	return canvas.Config{
		BaseURL:  strings.TrimRight(c.BaseURL, "/"),
		Token:    c.Token,
		CourseID: c.CourseID,
		Timeout:  time.Duration(c.TimeoutMs) * time.Millisecond,
	}
}

// Retry returns the executor's retry policy: the first attempt plus
// MaxRetries retries with exponential backoff.
func (c DeployConfig) Retry() canvas.RetryPolicy {
	return canvas.RetryPolicy{
		MaxAttempts: 1 + c.MaxRetries,
		BaseDelay:   time.Duration(c.BackoffMs) * time.Millisecond,
		Factor:      c.BackoffFactor,
	}
}

// Executor returns the executor's resource bounds.
func (c DeployConfig) Executor(forceUpdate bool) executor.Config {
	return executor.Config{
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		Concurrency:       c.Concurrency,
		ForceUpdate:       forceUpdate,
	}
}
