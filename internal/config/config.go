// Package config loads the mapgen configuration from .mapgen.yaml files,
// MAPGEN_ environment variables and .env files.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"mapgen/internal/plan"
)

// AppFs is the filesystem configuration and .env files are read from.
var AppFs = afero.NewOsFs()

// Name is the configuration file name without extension.
const Name = ".mapgen"

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "MAPGEN"

// Config holds the application configuration.
type Config struct {
	MappingFile string   `mapstructure:"mapping_file"`
	Dir         string   `mapstructure:"dir"`
	Packages    []string `mapstructure:"packages"`
	ManifestDir string   `mapstructure:"manifest_dir"`
	CacheDir    string   `mapstructure:"cache_dir"`

	DeriveNested      bool `mapstructure:"derive_nested"`
	MaxRecursionDepth int  `mapstructure:"max_recursion_depth"`
	Strict            bool `mapstructure:"strict"`

	Log   LogConfig `mapstructure:"log"`
	Color bool      `mapstructure:"color"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Plan returns the build configuration.
func (c *Config) Plan() plan.Config {
	return plan.Config{
		DeriveNested:      c.DeriveNested,
		MaxRecursionDepth: c.MaxRecursionDepth,
		Strict:            c.Strict,
	}
}

// New returns a viper instance with the search paths, environment binding
// and defaults of mapgen.
func New() (*viper.Viper, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetFs(AppFs)

	v.SetConfigName(Name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "mapgen"))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return v, nil
}

func setDefaults(v *viper.Viper) {
	def := plan.DefaultConfig()

	v.SetDefault("mapping_file", "mapgen.yaml")
	v.SetDefault("dir", ".")
	v.SetDefault("packages", []string{"./..."})
	v.SetDefault("manifest_dir", filepath.Join(".mapgen", "manifest"))
	v.SetDefault("cache_dir", filepath.Join(".mapgen", "cache"))
	v.SetDefault("derive_nested", def.DeriveNested)
	v.SetDefault("max_recursion_depth", def.MaxRecursionDepth)
	v.SetDefault("strict", def.Strict)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("color", true)
}

// LoadEnv loads .env and then .env.local, which wins, when they exist.
func LoadEnv() error {
	if ok, _ := afero.Exists(AppFs, ".env"); ok {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("loading .env: %w", err)
		}
	}

	if ok, _ := afero.Exists(AppFs, ".env.local"); ok {
		if err := godotenv.Overload(".env.local"); err != nil {
			return fmt.Errorf("loading .env.local: %w", err)
		}
	}

	return nil
}

// Load reads the configuration into a Config. A missing configuration file
// is not an error; explicit is a file given on the command line and must
// exist.
func Load(v *viper.Viper, explicit string) (*Config, error) {
	if explicit != "" {
		v.SetConfigFile(explicit)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.MaxRecursionDepth < 0 {
		return fmt.Errorf("max_recursion_depth must not be negative, got %d", c.MaxRecursionDepth)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// Save writes the settings of cfg to path.
func Save(v *viper.Viper, cfg *Config, path string) error {
	v.Set("mapping_file", cfg.MappingFile)
	v.Set("dir", cfg.Dir)
	v.Set("packages", cfg.Packages)
	v.Set("manifest_dir", cfg.ManifestDir)
	v.Set("cache_dir", cfg.CacheDir)
	v.Set("derive_nested", cfg.DeriveNested)
	v.Set("max_recursion_depth", cfg.MaxRecursionDepth)
	v.Set("strict", cfg.Strict)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("color", cfg.Color)

	if err := AppFs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
