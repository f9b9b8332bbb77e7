// Copyright 2025 Sri Panyam
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//  http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the generation settings shared by the CLI and the
// watcher, loaded from a .builder-gen.yaml file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/panyam/builder-gen/pkg/filters"
	"github.com/panyam/builder-gen/pkg/generator"
	"github.com/panyam/builder-gen/pkg/generator/common"
)

// DefaultFilename is the config file looked up in the working directory.
const DefaultFilename = ".builder-gen.yaml"

// DefaultDebounce is how long watch mode waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// GenerationConfig holds configuration for builder generation
type GenerationConfig struct {
	// WrapperName is the unqualified type name that marks a field optional
	WrapperName string `yaml:"wrapper"`

	// BuilderSuffix is appended to record names ("Builder" -> PersonBuilder)
	BuilderSuffix string `yaml:"builder_suffix"`

	// ConstructorPrefix starts constructor names ("New" -> NewPersonBuilder)
	ConstructorPrefix string `yaml:"constructor_prefix"`

	// OutputSuffix replaces the source extension in output file names
	OutputSuffix string `yaml:"output_suffix"`

	// Types are generated even without the //builder:generate directive
	Types []string `yaml:"types,omitempty"`

	// Records filters which records get builders
	Records RecordFilter `yaml:"records"`

	// Watch configures watch mode
	Watch WatchConfig `yaml:"watch"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// RecordFilter selects records by name.
type RecordFilter struct {
	Only    []string `yaml:"only,omitempty"`
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when no file is present.
func Default() *GenerationConfig {
	cfg := &GenerationConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in every unset setting.
func (c *GenerationConfig) ApplyDefaults() {
	if c.WrapperName == "" {
		c.WrapperName = "Option"
	}
	if c.BuilderSuffix == "" {
		c.BuilderSuffix = generator.DefaultBuilderSuffix
	}
	if c.ConstructorPrefix == "" {
		c.ConstructorPrefix = generator.DefaultConstructorPrefix
	}
	if c.OutputSuffix == "" {
		c.OutputSuffix = common.DefaultOutputSuffix
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = DefaultDebounce
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load loads a configuration file, applies defaults and validates it.
// Environment variables in the file are expanded.
func Load(path string) (*GenerationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg GenerationConfig
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads path if given, else DefaultFilename in dir if it
// exists, else returns Default().
func LoadOrDefault(path, dir string) (*GenerationConfig, error) {
	if path != "" {
		return Load(path)
	}
	candidate := filepath.Join(dir, DefaultFilename)
	if _, err := os.Stat(candidate); err == nil {
		return Load(candidate)
	}
	return Default(), nil
}

// Validate checks the configuration after defaults are applied.
func (c *GenerationConfig) Validate() error {
	var errs []error
	for _, id := range []struct{ key, value string }{
		{"wrapper", c.WrapperName},
		{"builder_suffix", c.BuilderSuffix},
		{"constructor_prefix", c.ConstructorPrefix},
	} {
		if !token.IsIdentifier(id.value) {
			errs = append(errs, fmt.Errorf("%s: %q is not a Go identifier", id.key, id.value))
		}
	}
	if !strings.HasSuffix(c.OutputSuffix, ".go") {
		errs = append(errs, fmt.Errorf("output_suffix: %q must end in .go", c.OutputSuffix))
	}
	if strings.HasSuffix(c.OutputSuffix, "_test.go") {
		errs = append(errs, fmt.Errorf("output_suffix: %q would produce test files", c.OutputSuffix))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, errors.New("watch.debounce: must not be negative"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := c.Filter(); err != nil {
		errs = append(errs, fmt.Errorf("records: %w", err))
	}
	return errors.Join(errs...)
}

// Filter builds the record filter.
func (c *GenerationConfig) Filter() (*filters.FilterCriteria, error) {
	return filters.FromLists(c.Records.Only, c.Records.Include, c.Records.Exclude)
}

// GeneratorOptions returns the generator settings of the configuration.
func (c *GenerationConfig) GeneratorOptions(logger *slog.Logger) generator.Options {
	return generator.Options{
		WrapperName:       c.WrapperName,
		BuilderSuffix:     c.BuilderSuffix,
		ConstructorPrefix: c.ConstructorPrefix,
		Logger:            logger,
	}
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q", name)
	}
	return level, nil
}
