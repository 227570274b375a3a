package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/indicator-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// When
	cfg, err := Load("")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "https://api.worldbank.org/v2", cfg.Source.BaseURL)
	assert.Equal(t, []string{"USA", "CHN", "IND", "JPN", "DEU"}, cfg.Source.Entities)
	assert.Equal(t, "NY.GDP.MKTP.CD", cfg.Source.Indicator)
	assert.Equal(t, "2005:2024", cfg.Source.PeriodRange())
	assert.Equal(t, 200, cfg.Source.PerPage)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, []string{"gemma3:latest", "smollm2:1.7b"}, cfg.Generation.Models)
	assert.Equal(t, 120*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, "v3", cfg.Prompt.Version)
	assert.Equal(t, "keep", cfg.Aggregate.DuplicatePolicy)
	assert.Equal(t, "upward", cfg.Aggregate.EmptyGrowthDirection)
	assert.Equal(t, "report.html", cfg.Output.Path)
}

func TestLoad_ValidYAML_OverridesDefaults(t *testing.T) {
	// Given
	// No indentation inside the backtick block to avoid YAML parsing errors
	path := writeFile(t, "atlas.yaml", `source:
  entities: [BRA, ARG]
  indicator: SP.POP.TOTL
  start_period: 2010
  end_period: 2020
  per_page: 50
  timeout: 5s
generation:
  host: http://ollama:11434
  models:
    - llama3.2:3b
  timeout: 2m
prompt:
  version: v2
output:
  path: out/pop.html`)

	// When
	cfg, err := Load(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"BRA", "ARG"}, cfg.Source.Entities)
	assert.Equal(t, "SP.POP.TOTL", cfg.Source.Indicator)
	assert.Equal(t, "2010:2020", cfg.Source.PeriodRange())
	assert.Equal(t, 50, cfg.Source.PerPage)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, "http://ollama:11434", cfg.Generation.Host)
	assert.Equal(t, []string{"llama3.2:3b"}, cfg.Generation.Models)
	assert.Equal(t, 2*time.Minute, cfg.Generation.Timeout)
	assert.Equal(t, "v2", cfg.Prompt.Version)
	assert.Equal(t, "out/pop.html", cfg.Output.Path)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ATLAS_SOURCE_INDICATOR", "NY.GDP.PCAP.CD")
	t.Setenv("ATLAS_SOURCE_ENTITIES", "FRA;GBR")
	t.Setenv("ATLAS_PROMPT_VERSION", "v1")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "NY.GDP.PCAP.CD", cfg.Source.Indicator)
	assert.Equal(t, []string{"FRA", "GBR"}, cfg.Source.Entities)
	assert.Equal(t, "v1", cfg.Prompt.Version)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeFile(t, "bad.yaml", "source: [unclosed")

	_, err := Load(path)

	assert.Error(t, err)
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no entities", mutate: func(c *Config) { c.Source.Entities = nil }},
		{name: "no indicator", mutate: func(c *Config) { c.Source.Indicator = "" }},
		{name: "inverted range", mutate: func(c *Config) { c.Source.StartPeriod = 2030 }},
		{name: "zero page size", mutate: func(c *Config) { c.Source.PerPage = 0 }},
		{name: "no models", mutate: func(c *Config) { c.Generation.Models = nil }},
		{name: "no prompt version", mutate: func(c *Config) { c.Prompt.Version = "" }},
		{name: "no output path", mutate: func(c *Config) { c.Output.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)

			tt.mutate(cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyProfile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.ApplyProfile(domain.Profile{
		Name:        "brics",
		Entities:    []string{"BRA", "RUS", "IND", "CHN", "ZAF"},
		StartPeriod: 2000,
		EndPeriod:   2010,
	})

	assert.Equal(t, []string{"BRA", "RUS", "IND", "CHN", "ZAF"}, cfg.Source.Entities)
	assert.Equal(t, "NY.GDP.MKTP.CD", cfg.Source.Indicator)
	assert.Equal(t, "2000:2010", cfg.Source.PeriodRange())
	assert.Equal(t, 200, cfg.Source.PerPage)
}
