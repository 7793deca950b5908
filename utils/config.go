package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/noelzubin/obsidian_search/search"
	"github.com/spf13/viper"
)

// Search engines that can be configured.
const (
	EngineScan  = "scan"
	EngineBleve = "bleve"
)

const rootPathKey = "root_path"

// Config is the cofiguration for the application
type Config struct {
	RootPath        string `mapstructure:"root_path"`         // Root directory holding the vaults.
	Opener          string `mapstructure:"opener"`            // Command to open obsidian:// links with, system default if empty
	Engine          string `mapstructure:"engine"`            // "scan" or "bleve"
	RecentLimit     int    `mapstructure:"recent_limit"`      // Number of recent notes shown on start
	RebuildOnSearch bool   `mapstructure:"rebuild_on_search"` // Rebuild the index on every query
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Engine, validation.Required, validation.In(EngineScan, EngineBleve)),
		validation.Field(&c.RecentLimit, validation.Min(0)),
	)
}

// DefaultConfigPath returns where the config file lives by default.
func DefaultConfigPath() string {
	homedir, _ := os.UserHomeDir()
	return path.Join(homedir, "/.config/obsidian_search/config.yaml")
}

// Settings reads and writes the config file.
type Settings struct {
	v    *viper.Viper
	file string
}

// NewSettings reads the config file at configPath. A missing file is not an
// error, it just leaves the root path unset.
func NewSettings(configPath string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(configPath)

	v.SetDefault("engine", EngineScan)
	v.SetDefault("recent_limit", 10)
	v.SetDefault("rebuild_on_search", false)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	return &Settings{v: v, file: configPath}, nil
}

// Config returns the validated configuration.
func (s *Settings) Config() (*Config, error) {
	config := &Config{}
	if err := s.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to parse the config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// RootPath returns the configured notes root, false if it is not set.
func (s *Settings) RootPath() (string, bool) {
	root := s.v.GetString(rootPathKey)
	return root, root != ""
}

// SetRootPath checks that root is an existing directory, then stores its
// absolute path in the config file.
func (s *Settings) SetRootPath(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return &search.PathError{Path: root, Err: err}
	}
	root = abs

	info, err := os.Stat(root)
	if err != nil {
		return &search.PathError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return &search.PathError{Path: root, Err: search.ErrNotDirectory}
	}

	s.v.Set(rootPathKey, root)

	if err := os.MkdirAll(filepath.Dir(s.file), 0o700); err != nil {
		return err
	}
	return s.v.WriteConfigAs(s.file)
}

// File returns the path of the config file.
func (s *Settings) File() string {
	return s.file
}
