// Package config loads ipftree settings from defaults and a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/ipftree/internal/lang"
)

// Config holds the procedure locations and matching rules for one run.
type Config struct {
	// IgorDir holds the primary procedures; they are visited first.
	IgorDir string `yaml:"igor_dir" validate:"required"`

	// UserDir holds the secondary procedures.
	UserDir string `yaml:"user_dir" validate:"required"`

	// IncludeDir is where include targets are looked up. Empty means UserDir.
	IncludeDir string `yaml:"include_dir,omitempty"`

	Extension      string `yaml:"extension" validate:"required,startswith=."`
	DefinePattern  string `yaml:"define_pattern" validate:"required"`
	IncludePattern string `yaml:"include_pattern" validate:"required"`

	// Workers bounds the concurrent pre-scan. 0 means GOMAXPROCS.
	Workers int `yaml:"workers" validate:"gte=0"`

	// MaxFileSize skips larger files from discovery. 0 means no limit.
	MaxFileSize int64 `yaml:"max_file_size" validate:"gte=0"`
}

var validate = validator.New()

// Default returns the Igor Pro 9 layout under home.
func Default(home string) Config {
	base := filepath.Join(home, "Documents", "WaveMetrics", "Igor Pro 9 User Files")
	igor := lang.Languages["igor"]
	return Config{
		IgorDir:        filepath.Join(base, "Igor Procedures"),
		UserDir:        filepath.Join(base, "User Procedures"),
		Extension:      igor.Extensions[0],
		DefinePattern:  igor.DefinePattern,
		IncludePattern: igor.IncludePattern,
	}
}

// Load reads the YAML file at path over base. Keys absent from the file keep
// their base values.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data, base)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data over base.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Validate checks field constraints and that both patterns compile with a
// single capture group.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := lang.NewMatcher(c.DefinePattern, c.IncludePattern); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IncludeDirectory returns IncludeDir, falling back to UserDir.
func (c Config) IncludeDirectory() string {
	if c.IncludeDir != "" {
		return c.IncludeDir
	}
	return c.UserDir
}
