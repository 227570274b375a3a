package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/indicator-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

const EnvPrefix = "ATLAS"

type SourceConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Entities    []string      `mapstructure:"entities"`
	Indicator   string        `mapstructure:"indicator"`
	StartPeriod int           `mapstructure:"start_period"`
	EndPeriod   int           `mapstructure:"end_period"`
	PerPage     int           `mapstructure:"per_page"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// PeriodRange is the inclusive "start:end" form used by the data source.
func (s SourceConfig) PeriodRange() string {
	return fmt.Sprintf("%d:%d", s.StartPeriod, s.EndPeriod)
}

type GenerationConfig struct {
	Host    string        `mapstructure:"host"`
	Models  []string      `mapstructure:"models"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PromptConfig struct {
	Version string `mapstructure:"version"`
}

type AggregateConfig struct {
	DuplicatePolicy      string `mapstructure:"duplicate_policy"`
	EmptyGrowthDirection string `mapstructure:"empty_growth_direction"`
}

type OutputConfig struct {
	Path  string `mapstructure:"path"`
	Title string `mapstructure:"title"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type Config struct {
	Source     SourceConfig     `mapstructure:"source"`
	Generation GenerationConfig `mapstructure:"generation"`
	Prompt     PromptConfig     `mapstructure:"prompt"`
	Aggregate  AggregateConfig  `mapstructure:"aggregate"`
	Output     OutputConfig     `mapstructure:"output"`
	Server     ServerConfig     `mapstructure:"server"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.base_url", "https://api.worldbank.org/v2")
	v.SetDefault("source.entities", []string{"USA", "CHN", "IND", "JPN", "DEU"})
	v.SetDefault("source.indicator", "NY.GDP.MKTP.CD")
	v.SetDefault("source.start_period", 2005)
	v.SetDefault("source.end_period", 2024)
	v.SetDefault("source.per_page", 200)
	v.SetDefault("source.timeout", "30s")

	v.SetDefault("generation.host", "http://localhost:11434")
	v.SetDefault("generation.models", []string{"gemma3:latest", "smollm2:1.7b"})
	v.SetDefault("generation.timeout", "120s")

	v.SetDefault("prompt.version", "v3")

	v.SetDefault("aggregate.duplicate_policy", "keep")
	v.SetDefault("aggregate.empty_growth_direction", string(domain.GrowthUpward))

	v.SetDefault("output.path", "report.html")
	v.SetDefault("output.title", "World Bank GDP AI Report")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
}

// Load reads defaults, then the optional config file at path, then ATLAS_*
// environment variables (ATLAS_SOURCE_INDICATOR, ATLAS_GENERATION_MODELS, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Source.Entities = splitList(cfg.Source.Entities)
	cfg.Generation.Models = splitList(cfg.Generation.Models)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Source.BaseURL == "":
		return fmt.Errorf("source.base_url is required")
	case len(c.Source.Entities) == 0:
		return fmt.Errorf("source.entities must list at least one entity code")
	case c.Source.Indicator == "":
		return fmt.Errorf("source.indicator is required")
	case c.Source.StartPeriod > c.Source.EndPeriod:
		return fmt.Errorf("source.start_period %d is after source.end_period %d", c.Source.StartPeriod, c.Source.EndPeriod)
	case c.Source.PerPage <= 0:
		return fmt.Errorf("source.per_page must be positive")
	case len(c.Generation.Models) == 0:
		return fmt.Errorf("generation.models must list at least one candidate model")
	case c.Prompt.Version == "":
		return fmt.Errorf("prompt.version is required")
	case c.Output.Path == "":
		return fmt.Errorf("output.path is required")
	}
	return nil
}

// ApplyProfile overlays the non-zero fields of a profile.
func (c *Config) ApplyProfile(p domain.Profile) {
	if len(p.Entities) > 0 {
		c.Source.Entities = append([]string(nil), p.Entities...)
	}
	if p.IndicatorID != "" {
		c.Source.Indicator = p.IndicatorID
	}
	if p.StartPeriod != 0 {
		c.Source.StartPeriod = p.StartPeriod
	}
	if p.EndPeriod != 0 {
		c.Source.EndPeriod = p.EndPeriod
	}
	if p.PerPage != 0 {
		c.Source.PerPage = p.PerPage
	}
}

// splitList accepts both YAML lists and single "A;B,C" strings from the environment.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ';' || r == ',' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
