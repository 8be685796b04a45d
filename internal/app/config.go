package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/specialistvlad/artifactgrid/internal/paths"
	"github.com/specialistvlad/artifactgrid/internal/render"
)

// Config holds all the necessary configuration for an App instance to run.
// Environment variables provide defaults and command-line flags override them.
type Config struct {
	RecipePath   string `env:"ARTIFACTGRID_RECIPES,default=."` // hcl files
	SourceDir    string `env:"ARTIFACTGRID_SOURCE_DIR"`
	BuildDir     string `env:"ARTIFACTGRID_BUILD_DIR"`
	Distribution string `env:"ARTIFACTGRID_DISTRIBUTION"`

	Format    string `env:"ARTIFACTGRID_FORMAT,default=json"`
	LogFormat string `env:"ARTIFACTGRID_LOG_FORMAT,default=text"`
	LogLevel  string `env:"ARTIFACTGRID_LOG_LEVEL,default=info"`

	// Vars overrides recipe file variables.
	Vars map[string]string
}

// ConfigFromEnv reads the ARTIFACTGRID_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// NewConfig validates cfg and fills in derived defaults: the source directory
// defaults to the recipe directory, the build directory to the user cache and
// the distribution to the one the host reports.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.RecipePath == "" {
		return nil, errors.New("RecipePath is a required configuration field and cannot be empty")
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !slices.Contains(LogFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !slices.Contains(LogLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.Format == "" {
		cfg.Format = string(render.JSON)
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	cfg.Format = string(format)

	if cfg.SourceDir == "" {
		cfg.SourceDir = recipeDir(cfg.RecipePath)
	}
	if cfg.BuildDir == "" {
		cfg.BuildDir = paths.BuildDir()
	}
	if cfg.Distribution == "" {
		cfg.Distribution = DetectDistribution(paths.OSReleaseFiles()...)
	}

	return &cfg, nil
}

// recipeDir is the directory a recipe path refers to. A path ending in the
// recipe file extension names a single file.
func recipeDir(p string) string {
	if strings.HasSuffix(p, ".hcl") {
		return filepath.Dir(p)
	}
	return p
}
