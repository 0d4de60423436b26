package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/Rana718/txgen/internal/batch"
	"github.com/Rana718/txgen/internal/database"
	"github.com/Rana718/txgen/internal/database/common"
	"github.com/Rana718/txgen/internal/export"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultOutDir   = "./data/generated"
	DefaultFormat   = export.FormatCSV
	DefaultURLEnv   = "DATABASE_URL"
	DefaultProvider = "postgresql"

	// ConfigName is the config file base name looked up in the working directory.
	ConfigName = "txgen.config"
	EnvPrefix  = "TXGEN"
)

type Config struct {
	NFiles   int    `json:"n_files" yaml:"n_files" mapstructure:"n_files"`
	BaseRows int    `json:"base_rows" yaml:"base_rows" mapstructure:"base_rows"`
	RowDelta int    `json:"row_delta" yaml:"row_delta" mapstructure:"row_delta"`
	OutDir   string `json:"out_dir" yaml:"out_dir" mapstructure:"out_dir"`
	Seed     *int64 `json:"seed,omitempty" yaml:"seed,omitempty" mapstructure:"seed"`
	Format   string `json:"format" yaml:"format" mapstructure:"format"`
	Manifest bool   `json:"manifest" yaml:"manifest" mapstructure:"manifest"`

	Database Database `json:"database" yaml:"database" mapstructure:"database"`
}

type Database struct {
	Provider  string `json:"provider" yaml:"provider" mapstructure:"provider"`
	URLEnv    string `json:"url_env" yaml:"url_env" mapstructure:"url_env"`
	Replace   bool   `json:"replace" yaml:"replace" mapstructure:"replace"`
	BatchSize int    `json:"batch_size" yaml:"batch_size" mapstructure:"batch_size"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		BaseRows: batch.DefaultBaseRows,
		RowDelta: batch.DefaultRowDelta,
		OutDir:   DefaultOutDir,
		Format:   DefaultFormat,
		Database: Database{
			Provider:  DefaultProvider,
			URLEnv:    DefaultURLEnv,
			BatchSize: common.DefaultBatchSize,
		},
	}
}

// SetDefaults registers the defaults on v so config files and env vars
// only need to mention what they change.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("n_files", 0)
	v.SetDefault("base_rows", d.BaseRows)
	v.SetDefault("row_delta", d.RowDelta)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("format", d.Format)
	v.SetDefault("manifest", false)
	v.SetDefault("database.provider", d.Database.Provider)
	v.SetDefault("database.url_env", d.Database.URLEnv)
	v.SetDefault("database.replace", false)
	v.SetDefault("database.batch_size", d.Database.BatchSize)

	// seed has no default; bind it so TXGEN_SEED is still picked up.
	v.BindEnv("seed")
}

// LoadFrom reads the configuration held by v over the defaults.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.OutDir == "" {
		cfg.OutDir = DefaultOutDir
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = DefaultURLEnv
	}
	if cfg.Database.BatchSize <= 0 {
		cfg.Database.BatchSize = common.DefaultBatchSize
	}

	return cfg, nil
}

func (c *Config) Options() batch.Options {
	return batch.Options{
		NFiles:   c.NFiles,
		BaseRows: c.BaseRows,
		RowDelta: c.RowDelta,
		Seed:     c.Seed,
	}
}

func (c *Config) Validate() error {
	if err := c.Options().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !slices.Contains(export.Formats, c.Format) {
		return fmt.Errorf("%w: unsupported format %q. Supported formats: %v", ErrInvalidConfig, c.Format, export.Formats)
	}
	if c.OutDir == "" {
		return fmt.Errorf("%w: out_dir cannot be empty", ErrInvalidConfig)
	}
	return nil
}

// ValidateDatabase checks the settings used by push.
func (c *Config) ValidateDatabase() error {
	if err := c.Options().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !slices.Contains(database.SupportedProviders, c.Database.Provider) {
		return fmt.Errorf("%w: unsupported database provider: %s. Supported providers: %v", ErrInvalidConfig, c.Database.Provider, database.SupportedProviders)
	}
	return nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}
