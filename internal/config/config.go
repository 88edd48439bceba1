// Package config loads application settings from defaults, an optional YAML
// file, a .env file and CAROUSEL_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/BillMorio/LinkedIn-Carousel/internal/validation"
)

// EnvPrefix prefixes every environment override, e.g. CAROUSEL_SERVER_ADDR.
const EnvPrefix = "CAROUSEL"

const (
	defaultServerAddr      = ":8080"
	defaultServerTimeout   = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultFetchTimeout    = 15 * time.Second
	defaultFetchConcurrent = 4
	defaultFetchInterval   = 100 * time.Millisecond
	defaultCacheTTL        = 30 * time.Minute
	defaultMaxImageBytes   = 10 << 20
	defaultPixelRatio      = 2.0
)

// Config is the full application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Project ProjectConfig `mapstructure:"project"`
	Export  ExportConfig  `mapstructure:"export"`
	Server  ServerConfig  `mapstructure:"server"`
	Images  ImagesConfig  `mapstructure:"images"`
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// ProjectConfig seeds newly created projects.
type ProjectConfig struct {
	Theme       string `mapstructure:"theme" validate:"required,slug"`
	AspectRatio string `mapstructure:"aspect_ratio" validate:"oneof=square portrait"`
}

// ExportConfig controls rasterisation.
type ExportConfig struct {
	Dir        string  `mapstructure:"dir" validate:"required"`
	PixelRatio float64 `mapstructure:"pixel_ratio" validate:"gt=0,lte=4"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// ImagesConfig tunes remote image inlining.
type ImagesConfig struct {
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`
	Concurrency   int           `mapstructure:"concurrency" validate:"min=1,max=32"`
	Interval      time.Duration `mapstructure:"interval" validate:"gte=0"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`
	MaxImageBytes int64         `mapstructure:"max_image_bytes" validate:"gt=0"`
}

// HumanReadable reports whether logs should use the console writer.
func (c *Config) HumanReadable() bool {
	return c.Logging.Format == "text"
}

// Validate checks every section.
func (c *Config) Validate() error {
	return validation.Struct(c)
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("project.theme", "execution-steps")
	v.SetDefault("project.aspect_ratio", "portrait")

	v.SetDefault("export.dir", "exports")
	v.SetDefault("export.pixel_ratio", defaultPixelRatio)

	v.SetDefault("server.addr", defaultServerAddr)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.write_timeout", defaultServerTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)

	v.SetDefault("images.fetch_timeout", defaultFetchTimeout)
	v.SetDefault("images.concurrency", defaultFetchConcurrent)
	v.SetDefault("images.interval", defaultFetchInterval)
	v.SetDefault("images.cache_ttl", defaultCacheTTL)
	v.SetDefault("images.max_image_bytes", defaultMaxImageBytes)
}

// Load builds the configuration. configPath may be empty, in which case
// carousel.yaml is looked up in the working directory and
// $HOME/.config/carousel; a missing file is not an error. A .env file in
// the working directory is loaded first without overriding real variables.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("carousel")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/carousel")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration with no file and no environment.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}
