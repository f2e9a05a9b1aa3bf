package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the consolidation run configuration. Values come from
// magpie.yaml (or an explicit --config file), overridable through
// MAGPIE_-prefixed environment variables.
type Config struct {
	Log           LogConfig           `mapstructure:"log"`
	Relationships RelationshipsConfig `mapstructure:"relationships"`
	Risk          RiskConfig          `mapstructure:"risk"`
	// Nicknames layers additional formal-name -> variants entries over
	// the built-in dictionary.
	Nicknames map[string][]string `mapstructure:"nicknames"`
}

type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	File  string `mapstructure:"file"`
}

type RelationshipsConfig struct {
	MinStrength   int `mapstructure:"min_strength"`
	MaxEdges      int `mapstructure:"max_edges"`
	ParallelScans int `mapstructure:"parallel_scans"`
}

type RiskConfig struct {
	Anchors  []string `mapstructure:"anchors"`
	Keywords []string `mapstructure:"keywords"`
}

// Load reads the configuration. A missing config file is fine; defaults
// and environment variables still apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.debug", false)
	v.SetDefault("log.file", "")
	v.SetDefault("relationships.min_strength", 2)
	v.SetDefault("relationships.max_edges", 10000)
	v.SetDefault("relationships.parallel_scans", 4)
	v.SetDefault("risk.anchors", []string{})
	v.SetDefault("risk.keywords", []string{})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("magpie")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("MAGPIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
