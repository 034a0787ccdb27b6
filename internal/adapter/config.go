package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/gitscout/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Provider domain.Provider `mapstructure:"provider"`
	GitHub   GitHubConfig    `mapstructure:"github"`
	LinkedIn LinkedInConfig  `mapstructure:"linkedin"`
	Search   SearchConfig    `mapstructure:"search"`
	Cache    CacheConfig     `mapstructure:"cache"`
	UI       UIConfig        `mapstructure:"ui"`
	Logging  LoggingConfig   `mapstructure:"logging"`
}

// GitHubConfig holds GitHub API configuration
type GitHubConfig struct {
	BaseURL   string  `mapstructure:"base_url"`
	Token     string  `mapstructure:"token"`      // Optional, raises rate limits
	PerPage   int     `mapstructure:"per_page"`   // Search hits requested per query
	RateLimit float64 `mapstructure:"rate_limit"` // Requests per second, 0 = unlimited
	RateBurst int     `mapstructure:"rate_burst"`
}

// LinkedInConfig holds the LinkedIn stub endpoint
type LinkedInConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// SearchConfig controls the search controller
type SearchConfig struct {
	PageSize       int           `mapstructure:"page_size"`
	AutoFetch      bool          `mapstructure:"auto_fetch"` // Search on every keystroke instead of on enter
	Debounce       time.Duration `mapstructure:"debounce"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
}

// CacheConfig controls the follower-count cache
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme   string `mapstructure:"theme"`   // "light" or "dark"
	Browser string `mapstructure:"browser"` // Command used to open profiles, empty for system default
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: domain.ProviderGitHub,
		GitHub: GitHubConfig{
			BaseURL:   "https://api.github.com",
			PerPage:   30,
			RateLimit: 10,
			RateBurst: 10,
		},
		LinkedIn: LinkedInConfig{
			BaseURL: "https://api.example.com/linkedin/search",
		},
		Search: SearchConfig{
			PageSize:       5,
			AutoFetch:      false,
			Debounce:       300 * time.Millisecond,
			RequestTimeout: 10 * time.Second,
			MaxConcurrency: 8,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCachePath(),
			TTL:     time.Hour,
		},
		UI: UIConfig{
			Theme: "light",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "gitscout", "gitscout.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "gitscout", "gitscout.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "gitscout")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "gitscout")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "gitscout", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "gitscout", "cache")
	}
}

// ConfigFilePath returns the path SaveConfig writes to
func ConfigFilePath() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// NewViper returns a viper instance seeded with defaults, search paths and
// GITSCOUT_ environment overrides. An explicit file overrides the search paths.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GITSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every key so env overrides and Unmarshal see them
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("provider", string(cfg.Provider))
	v.SetDefault("github.base_url", cfg.GitHub.BaseURL)
	v.SetDefault("github.token", cfg.GitHub.Token)
	v.SetDefault("github.per_page", cfg.GitHub.PerPage)
	v.SetDefault("github.rate_limit", cfg.GitHub.RateLimit)
	v.SetDefault("github.rate_burst", cfg.GitHub.RateBurst)
	v.SetDefault("linkedin.base_url", cfg.LinkedIn.BaseURL)
	v.SetDefault("search.page_size", cfg.Search.PageSize)
	v.SetDefault("search.auto_fetch", cfg.Search.AutoFetch)
	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("search.request_timeout", cfg.Search.RequestTimeout)
	v.SetDefault("search.max_concurrency", cfg.Search.MaxConcurrency)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("ui.theme", cfg.UI.Theme)
	v.SetDefault("ui.browser", cfg.UI.Browser)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// LoadConfig loads configuration from file and environment
func LoadConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise break the controller or clients
func (c *Config) Validate() error {
	switch c.Provider {
	case domain.ProviderGitHub, domain.ProviderLinkedIn:
	default:
		return fmt.Errorf("unknown provider: %q", c.Provider)
	}
	if c.Search.PageSize <= 0 {
		return fmt.Errorf("search.page_size must be positive, got %d", c.Search.PageSize)
	}
	if c.Search.Debounce < 0 || c.Search.RequestTimeout < 0 || c.Cache.TTL < 0 {
		return errors.New("durations must not be negative")
	}
	if c.GitHub.RateLimit < 0 {
		return errors.New("github.rate_limit must not be negative")
	}
	switch strings.ToLower(c.UI.Theme) {
	case "light", "dark":
	default:
		return fmt.Errorf("unknown theme: %q", c.UI.Theme)
	}
	if !knownLogLevel(c.Logging.Level) {
		return fmt.Errorf("unknown logging.level: %q", c.Logging.Level)
	}
	return nil
}

// SaveConfig writes cfg to path, or to the default location when path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = ConfigFilePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("provider", string(cfg.Provider))

	v.Set("github.base_url", cfg.GitHub.BaseURL)
	v.Set("github.token", cfg.GitHub.Token)
	v.Set("github.per_page", cfg.GitHub.PerPage)
	v.Set("github.rate_limit", cfg.GitHub.RateLimit)
	v.Set("github.rate_burst", cfg.GitHub.RateBurst)

	v.Set("linkedin.base_url", cfg.LinkedIn.BaseURL)

	v.Set("search.page_size", cfg.Search.PageSize)
	v.Set("search.auto_fetch", cfg.Search.AutoFetch)
	v.Set("search.debounce", cfg.Search.Debounce.String())
	v.Set("search.request_timeout", cfg.Search.RequestTimeout.String())
	v.Set("search.max_concurrency", cfg.Search.MaxConcurrency)

	v.Set("cache.enabled", cfg.Cache.Enabled)
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.ttl", cfg.Cache.TTL.String())

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.browser", cfg.UI.Browser)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ClearCache removes all cached data under dir
func ClearCache(dir string) error {
	if dir == "" {
		dir = defaultCachePath()
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
