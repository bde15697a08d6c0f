// Package config provides configuration management for the chunking
// service. It follows Uber Go Style Guide conventions for struct
// organization and error handling.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/hsn0918/mdchunk/pkg/chunking"
)

// Common configuration errors
var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

var validate = validator.New()

// ChunkingConfig mirrors chunking.ChunkConfig with mapstructure/validate
// tags so it can be loaded from YAML/env and checked before conversion.
type ChunkingConfig struct {
	MaxChunkSize         int     `mapstructure:"max_chunk_size" validate:"required,min=100,max=100000"`
	MinChunkSize         int     `mapstructure:"min_chunk_size" validate:"required,min=10"`
	OverlapSize          int     `mapstructure:"overlap_size" validate:"min=0"`
	PreserveAtomicBlocks bool    `mapstructure:"preserve_atomic_blocks"`
	ExtractPreamble      bool    `mapstructure:"extract_preamble"`
	CodeThreshold        float64 `mapstructure:"code_threshold" validate:"min=0,max=1"`
	StructureThreshold   int     `mapstructure:"structure_threshold" validate:"min=0"`
	StrategyOverride     string  `mapstructure:"strategy_override" validate:"omitempty,oneof=code_aware structural fallback"`
}

// ToChunkConfig converts a validated ChunkingConfig into the pkg/chunking
// type that NewChunkConfig accepts.
func (c ChunkingConfig) ToChunkConfig() chunking.ChunkConfig {
	return chunking.ChunkConfig{
		MaxChunkSize:         c.MaxChunkSize,
		MinChunkSize:         c.MinChunkSize,
		OverlapSize:          c.OverlapSize,
		PreserveAtomicBlocks: c.PreserveAtomicBlocks,
		ExtractPreamble:      c.ExtractPreamble,
		CodeThreshold:        c.CodeThreshold,
		StructureThreshold:   c.StructureThreshold,
		StrategyOverride:     chunking.Strategy(c.StrategyOverride),
	}
}

// Profile is a named preset of ChunkingConfig, per spec extension: "chat-log"
// and "technical-docs" ship as starting points alongside "default".
var Profile = map[string]ChunkingConfig{
	"default": {
		MaxChunkSize:         chunking.DefaultMaxChunkSize,
		MinChunkSize:         chunking.DefaultMinChunkSize,
		OverlapSize:          chunking.DefaultOverlapSize,
		PreserveAtomicBlocks: true,
		ExtractPreamble:      true,
		CodeThreshold:        chunking.DefaultCodeThreshold,
		StructureThreshold:   chunking.DefaultStructureThreshold,
	},
	"technical-docs": {
		MaxChunkSize:         6144,
		MinChunkSize:         768,
		OverlapSize:          256,
		PreserveAtomicBlocks: true,
		ExtractPreamble:      true,
		CodeThreshold:        0.15,
		StructureThreshold:   2,
	},
	"chat-log": {
		MaxChunkSize:         1024,
		MinChunkSize:         128,
		OverlapSize:          64,
		PreserveAtomicBlocks: true,
		ExtractPreamble:      false,
		CodeThreshold:        0.5,
		StructureThreshold:   8,
	},
}

// ServerConfig holds the REST adapter's listen settings.
type ServerConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port string `mapstructure:"port" validate:"required,numeric"`
}

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Chunking ChunkingConfig `mapstructure:"chunking"`
}

// Validate runs struct-tag validation and the chunking-specific invariant
// checks that NewChunkConfig also enforces.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := chunking.NewChunkConfig(c.Chunking.ToChunkConfig()); err != nil {
		return fmt.Errorf("chunking config: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")

	def := Profile["default"]
	viper.SetDefault("chunking.max_chunk_size", def.MaxChunkSize)
	viper.SetDefault("chunking.min_chunk_size", def.MinChunkSize)
	viper.SetDefault("chunking.overlap_size", def.OverlapSize)
	viper.SetDefault("chunking.preserve_atomic_blocks", def.PreserveAtomicBlocks)
	viper.SetDefault("chunking.extract_preamble", def.ExtractPreamble)
	viper.SetDefault("chunking.code_threshold", def.CodeThreshold)
	viper.SetDefault("chunking.structure_threshold", def.StructureThreshold)
}

// MustLoadConfig loads configuration and panics on failure. Use this only
// in main() or init() functions where failure should be fatal.
func MustLoadConfig(configPath string) *Config {
	config, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return config
}
