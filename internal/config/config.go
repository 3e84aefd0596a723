package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/discoverable-labs/discoverable/internal/branding"
	"github.com/discoverable-labs/discoverable/pkg/catalog"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyRoot        = "root"
	KeyManifest    = "manifest"
	KeyConcurrency = "concurrency"
	KeyValidate    = "validate"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
)

var keys = []string{KeyRoot, KeyManifest, KeyConcurrency, KeyValidate, KeyLogLevel, KeyLogFormat}

// Settings is the typed view of the configuration with defaults applied.
type Settings struct {
	Root        string
	Manifest    string
	Concurrency int
	Validate    bool
	LogLevel    string
	LogFormat   string
}

// Catalog returns the catalog construction config for s.
func (s Settings) Catalog() catalog.Config {
	return catalog.Config{
		Root:           s.Root,
		Manifest:       s.Manifest,
		SkipValidation: !s.Validate,
		Concurrency:    s.Concurrency,
	}
}

// Keys returns the recognised setting keys.
func Keys() []string {
	return slices.Clone(keys)
}

// IsKnown reports whether key is a recognised setting.
func IsKnown(key string) bool {
	return slices.Contains(keys, key)
}

// Dir returns the path to the config directory (~/.discoverable/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.discoverable/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyManifest, branding.ManifestName())
	viper.SetDefault(KeyConcurrency, catalog.DefaultConcurrency)
	viper.SetDefault(KeyValidate, true)
	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeyLogFormat, "pretty")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current returns the current settings with defaults applied.
func Current() Settings {
	s := Settings{
		Root:        viper.GetString(KeyRoot),
		Manifest:    viper.GetString(KeyManifest),
		Concurrency: viper.GetInt(KeyConcurrency),
		Validate:    viper.GetBool(KeyValidate),
		LogLevel:    viper.GetString(KeyLogLevel),
		LogFormat:   viper.GetString(KeyLogFormat),
	}
	if s.Manifest == "" {
		s.Manifest = branding.ManifestName()
	}
	if s.Concurrency <= 0 {
		s.Concurrency = catalog.DefaultConcurrency
	}
	return s
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
