package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// UserConfig identifies the active local user.
type UserConfig struct {
	ID   string `mapstructure:"id" yaml:"id"`
	Name string `mapstructure:"name" yaml:"name"`
}

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	// Path is the SQLite database file location. Empty means the
	// default path next to the config file.
	Path string `mapstructure:"path" yaml:"path"`
}

// NotificationConfig holds toast delivery tuning.
type NotificationConfig struct {
	// PollIntervalMs is how often the toast loop drains the
	// undisplayed queue.
	PollIntervalMs int `mapstructure:"poll_interval_ms" yaml:"poll_interval_ms"`

	// ToastTimeoutMs is how long a toast stays visible before
	// auto-dismissal.
	ToastTimeoutMs int `mapstructure:"toast_timeout_ms" yaml:"toast_timeout_ms"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	User          UserConfig         `mapstructure:"user" yaml:"user"`
	Database      DatabaseConfig     `mapstructure:"database" yaml:"database"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	Display       DisplayConfig      `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/projecthub/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "projecthub", "config.yaml")
}

// DefaultDatabasePath returns the default SQLite database location,
// alongside the configuration file.
func DefaultDatabasePath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "projecthub.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		User: UserConfig{
			ID:   "user-local",
			Name: "Local User",
		},
		Database: DatabaseConfig{
			Path: DefaultDatabasePath(),
		},
		Notifications: NotificationConfig{
			PollIntervalMs: 2000,
			ToastTimeoutMs: 5000,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("user.id", "user-local")
	v.SetDefault("user.name", "Local User")
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("notifications.poll_interval_ms", 2000)
	v.SetDefault("notifications.toast_timeout_ms", 5000)
	v.SetDefault("display.theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Notifications.PollIntervalMs <= 0 {
		cfg.Notifications.PollIntervalMs = 2000
	}
	if cfg.Notifications.ToastTimeoutMs <= 0 {
		cfg.Notifications.ToastTimeoutMs = 5000
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("user", cfg.User)
	v.Set("database", cfg.Database)
	v.Set("notifications", cfg.Notifications)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
