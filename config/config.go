package config

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/autofake/fake"
	"github.com/viant/autofake/inspector/cheader"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Version is the config version understood by this build
const Version = "v1.0.0"

// Config represents autofake config
type Config struct {
	Version              string       `yaml:"version"`
	IncludeDirs          []string     `yaml:"includeDirs"`
	OutputDir            string       `yaml:"outputDir"`
	Suffix               string       `yaml:"suffix"`
	FFFHeader            string       `yaml:"fffHeader"`
	GenerateIncludeGuard bool         `yaml:"generateIncludeGuard"`
	CPlusPlus            bool         `yaml:"cplusplus"`
	MaxParams            int          `yaml:"maxParams"`
	Workers              int          `yaml:"workers"`
	Verify               bool         `yaml:"verify"`
	IgnoreKeywords       []string     `yaml:"ignoreKeywords"`
	ErrorContext         ErrorContext `yaml:"errorContext"`
	Log                  Log          `yaml:"log"`
}

// ErrorContext represents number of source lines printed around an error
type ErrorContext struct {
	Before int `yaml:"before"`
	After  int `yaml:"after"`
}

// Log represents logger config
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns default config
func DefaultConfig() *Config {
	generator := fake.DefaultConfig()
	return &Config{
		Version:              Version,
		Suffix:               generator.Suffix,
		FFFHeader:            generator.FFFHeader,
		GenerateIncludeGuard: generator.GenerateIncludeGuard,
		CPlusPlus:            generator.CPlusPlus,
		MaxParams:            generator.MaxParams,
		Workers:              4,
		IgnoreKeywords:       append([]string{}, cheader.DefaultIgnoreKeywords...),
		ErrorContext:         ErrorContext{Before: 5, After: 5},
		Log:                  Log{Level: "warn", Format: "text"},
	}
}

// Load loads YAML config over defaults
func Load(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}

// Validate checks config
func (c *Config) Validate() error {
	if !semver.IsValid(c.Version) {
		return fmt.Errorf("invalid version: %q", c.Version)
	}
	if major := semver.Major(c.Version); major != semver.Major(Version) {
		return fmt.Errorf("unsupported version: %v, expected %v.x.x", c.Version, semver.Major(Version))
	}
	if c.Suffix == "" {
		return fmt.Errorf("suffix was empty")
	}
	if c.FFFHeader == "" {
		return fmt.Errorf("fffHeader was empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers: %v", c.Workers)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %v", c.Log.Format)
	}
	return nil
}

// Generator returns fake generator config
func (c *Config) Generator() *fake.Config {
	return &fake.Config{
		FFFHeader:            c.FFFHeader,
		Suffix:               c.Suffix,
		GenerateIncludeGuard: c.GenerateIncludeGuard,
		CPlusPlus:            c.CPlusPlus,
		MaxParams:            c.MaxParams,
	}
}
