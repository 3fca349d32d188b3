package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/spendscope/internal/analyzer"
)

// EnvPrefix prefixes every environment override, e.g. SPENDSCOPE_SERVER_PORT.
const EnvPrefix = "SPENDSCOPE"

// Config is the full set of spendscope settings.
type Config struct {
	Server     ServerConfig        `mapstructure:"server"`
	Database   DatabaseConfig      `mapstructure:"database"`
	Log        LogConfig           `mapstructure:"log"`
	Commentary CommentaryConfig    `mapstructure:"commentary"`
	Ingest     IngestConfig        `mapstructure:"ingest"`
	Alerts     AlertsConfig        `mapstructure:"alerts"`
	Categories CategoriesConfig    `mapstructure:"categories"`
	Benchmarks analyzer.Benchmarks `mapstructure:"benchmarks"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// CommentaryConfig configures the chat-completions upstream. The API key
// is read from the environment variable named by APIKeyEnv, never from the
// settings file.
type CommentaryConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Endpoint          string        `mapstructure:"endpoint"`
	Model             string        `mapstructure:"model"`
	APIKeyEnv         string        `mapstructure:"api_key_env"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// APIKey returns the key from the configured environment variable.
func (c CommentaryConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// IngestConfig bounds file ingestion.
type IngestConfig struct {
	MaxUploadMB int `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (c IngestConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// AlertsConfig configures contract renewal alerting.
type AlertsConfig struct {
	WindowDays int `mapstructure:"window_days"`
}

// CategoriesConfig extends categorization. Rules are tried before the
// built-in keyword table; aliases add or override category synonyms.
type CategoriesConfig struct {
	Rules   []analyzer.CategoryRule `mapstructure:"rules"`
	Aliases map[string]string       `mapstructure:"aliases"`
}

// AnalyzerOptions returns the analyzer options for the configured rules
// and aliases.
func (c CategoriesConfig) AnalyzerOptions() []analyzer.Option {
	var opts []analyzer.Option
	if len(c.Rules) > 0 {
		rules := append(append([]analyzer.CategoryRule{}, c.Rules...), analyzer.DefaultCategoryRules()...)
		opts = append(opts, analyzer.WithCategoryRules(rules))
	}
	if len(c.Aliases) > 0 {
		opts = append(opts, analyzer.WithCategoryAliases(c.Aliases))
	}
	return opts
}

// DefaultPath returns the default settings file, {Dir}/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func setDefaults(v *viper.Viper) error {
	v.SetDefault("server.port", 8847)
	v.SetDefault("database.path", "~/.spendscope/spendscope.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("commentary.base_url", "")
	v.SetDefault("commentary.endpoint", "/api/chat/completions")
	v.SetDefault("commentary.model", "gpt-4o-mini")
	v.SetDefault("commentary.api_key_env", "SPENDSCOPE_COMMENTARY_KEY")
	v.SetDefault("commentary.timeout", 60*time.Second)
	v.SetDefault("commentary.requests_per_minute", 30)
	v.SetDefault("ingest.max_upload_mb", 20)
	v.SetDefault("alerts.window_days", 120)

	// Register every benchmark key so env overrides reach it.
	raw, err := json.Marshal(analyzer.DefaultBenchmarks())
	if err != nil {
		return fmt.Errorf("failed to encode default benchmarks: %w", err)
	}
	var bench map[string]any
	if err := json.Unmarshal(raw, &bench); err != nil {
		return fmt.Errorf("failed to decode default benchmarks: %w", err)
	}
	for k, val := range bench {
		v.SetDefault("benchmarks."+k, val)
	}
	return nil
}

// Load reads settings from path, the environment and built-in defaults, in
// decreasing precedence of environment, file, defaults. An empty path means
// DefaultPath, which may be absent. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := &Config{Benchmarks: analyzer.DefaultBenchmarks()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	db, err := ExpandHome(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	cfg.Database.Path = db

	return cfg, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Ingest.MaxUploadMB <= 0 {
		return fmt.Errorf("ingest.max_upload_mb must be positive")
	}
	if c.Alerts.WindowDays <= 0 {
		return fmt.Errorf("alerts.window_days must be positive")
	}
	if c.Commentary.RequestsPerMinute < 0 {
		return fmt.Errorf("commentary.requests_per_minute must not be negative")
	}
	for i, rule := range c.Categories.Rules {
		if strings.TrimSpace(rule.Category) == "" {
			return fmt.Errorf("categories.rules[%d]: category is required", i)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("categories.rules[%d]: %s has no keywords", i, rule.Category)
		}
	}
	return nil
}
