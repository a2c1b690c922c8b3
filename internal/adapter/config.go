package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmcdole/lector/internal/loader"
)

const appName = "lector"

// Config holds all application configuration
type Config struct {
	Loader  LoaderConfig  `mapstructure:"loader"`
	Picker  PickerConfig  `mapstructure:"picker"`
	History HistoryConfig `mapstructure:"history"`
	Editor  EditorConfig  `mapstructure:"editor"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LoaderConfig holds file loading configuration
type LoaderConfig struct {
	ChunkSize int `mapstructure:"chunk_size"` // bytes per read
}

// PickerConfig holds file picker configuration
type PickerConfig struct {
	StartDir          string   `mapstructure:"start_dir"` // "" = working directory
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	ShowHidden        bool     `mapstructure:"show_hidden"`
}

// HistoryConfig holds recent-files configuration
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MaxEntries int    `mapstructure:"max_entries"`
	Path       string `mapstructure:"path"` // directory holding lector.db; "" = memory only
}

// EditorConfig holds external editor configuration
type EditorConfig struct {
	Command  string   `mapstructure:"command"` // "" = $VISUAL, $EDITOR, then auto-detect
	Args     []string `mapstructure:"args"`
	LineFlag string   `mapstructure:"line_flag"` // e.g. "+" or "--line "
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Loader: LoaderConfig{
			ChunkSize: loader.DefaultChunkSize,
		},
		Picker: PickerConfig{
			StartDir:          "",
			AllowedExtensions: []string{".txt", ".log", ".md", ".csv"},
			ShowHidden:        false,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 20,
			Path:       defaultDataPath(),
		},
		Editor: EditorConfig{
			Command: "",
			Args:    []string{},
		},
		Logging: LoggingConfig{
			File:       filepath.Join(defaultDataPath(), "lector.log"),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// ConfigDir returns the directory config.yaml is read from and written to
func ConfigDir() string {
	return defaultConfigPath()
}

// LoadConfig loads configuration from the default config directory,
// the working directory and the environment.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(defaultConfigPath(), ".")
}

// LoadConfigFrom loads config.yaml from the first of dirs that has one.
// A .env file in the working directory is loaded first; LECTOR_* variables
// override file values (LECTOR_LOADER_CHUNK_SIZE, LECTOR_HISTORY_ENABLED, ...).
func LoadConfigFrom(dirs ...string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper(DefaultConfig())
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper returns a viper instance with every key registered, so
// AutomaticEnv can override keys that are absent from the config file.
func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("LECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setAll(v, defaults, v.SetDefault)
	return v
}

// setAll writes every config field through set using snake_case keys
func setAll(v *viper.Viper, cfg *Config, set func(key string, value any)) {
	set("loader.chunk_size", cfg.Loader.ChunkSize)

	set("picker.start_dir", cfg.Picker.StartDir)
	set("picker.allowed_extensions", cfg.Picker.AllowedExtensions)
	set("picker.show_hidden", cfg.Picker.ShowHidden)

	set("history.enabled", cfg.History.Enabled)
	set("history.max_entries", cfg.History.MaxEntries)
	set("history.path", cfg.History.Path)

	set("editor.command", cfg.Editor.Command)
	set("editor.args", cfg.Editor.Args)
	set("editor.line_flag", cfg.Editor.LineFlag)

	set("logging.file", cfg.Logging.File)
	set("logging.level", cfg.Logging.Level)
	set("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	set("logging.max_backups", cfg.Logging.MaxBackups)
	set("logging.max_age_days", cfg.Logging.MaxAgeDays)
}

// loadDotEnv loads path into the environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// Validate normalizes values and rejects ones that can't work
func (c *Config) Validate() error {
	if c.Loader.ChunkSize < 0 {
		return fmt.Errorf("loader.chunk_size must not be negative, got %d", c.Loader.ChunkSize)
	}
	if c.Loader.ChunkSize > 0 && c.Loader.ChunkSize < loader.MinChunkSize {
		c.Loader.ChunkSize = loader.MinChunkSize
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must not be negative, got %d", c.History.MaxEntries)
	}

	exts := make([]string, 0, len(c.Picker.AllowedExtensions))
	for _, ext := range c.Picker.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.Picker.AllowedExtensions = exts

	c.Picker.StartDir = expandHome(c.Picker.StartDir)
	c.History.Path = expandHome(c.History.Path)
	c.Logging.File = expandHome(c.Logging.File)
	return nil
}

// SaveConfig saves the configuration to the default config directory
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(cfg, defaultConfigPath())
}

// SaveConfigTo writes cfg as config.yaml inside dir
func SaveConfigTo(cfg *Config, dir string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setAll(v, cfg, v.Set)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
