// Package config loads GreenMeds settings from an optional greenmeds.yaml,
// GREENMEDS_* environment variables and built-in defaults.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hazyhaar/greenmeds/pkg/resolve"
)

// Config is the root configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	OCR      OCRConfig      `yaml:"ocr" mapstructure:"ocr"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CatalogConfig locates the reference data: a CSV file, a snapshot, or a
// directory with manifest.yaml.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ResolverConfig tunes fuzzy matching.
type ResolverConfig struct {
	Cutoff        float64 `yaml:"cutoff" mapstructure:"cutoff"`
	MaxCandidates int     `yaml:"max_candidates" mapstructure:"max_candidates"`
}

// Options converts to resolver options.
func (r ResolverConfig) Options() resolve.Options {
	return resolve.Options{Cutoff: r.Cutoff, MaxCandidates: r.MaxCandidates}
}

// OCRConfig configures the tesseract engine.
type OCRConfig struct {
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
	Language      string `yaml:"language" mapstructure:"language"`
	TimeoutSecs   int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the per-image OCR timeout.
func (o OCRConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSecs) * time.Second
}

// BatchConfig bounds concurrent batch lookups.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from path (or greenmeds.yaml in the working
// directory when path is empty), the environment and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("greenmeds")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("GREENMEDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.path", "data/meds_info.csv")
	v.SetDefault("resolver.cutoff", resolve.DefaultCutoff)
	v.SetDefault("resolver.max_candidates", resolve.DefaultMaxCandidates)
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.timeout_secs", 60)
	v.SetDefault("batch.concurrency", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the resolver and batch runner cannot work with.
func (c *Config) Validate() error {
	if c.Resolver.Cutoff <= 0 || c.Resolver.Cutoff > 1 {
		return eris.Errorf("config: resolver.cutoff must be in (0, 1], got %v", c.Resolver.Cutoff)
	}
	if c.Resolver.MaxCandidates < 1 || c.Resolver.MaxCandidates > resolve.DefaultMaxCandidates {
		return eris.Errorf("config: resolver.max_candidates must be in [1, %d], got %d",
			resolve.DefaultMaxCandidates, c.Resolver.MaxCandidates)
	}
	if c.Batch.Concurrency < 1 {
		return eris.Errorf("config: batch.concurrency must be at least 1, got %d", c.Batch.Concurrency)
	}
	if c.OCR.TimeoutSecs < 1 {
		return eris.Errorf("config: ocr.timeout_secs must be at least 1, got %d", c.OCR.TimeoutSecs)
	}
	return nil
}

// InitLogger initializes the global zap logger. Output goes to stderr so
// stdout stays free for reports and the MCP stream.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)
	zapCfg.OutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
