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

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Option", cfg.WrapperName)
	assert.Equal(t, "Builder", cfg.BuilderSuffix)
	assert.Equal(t, "New", cfg.ConstructorPrefix)
	assert.Equal(t, "_builder.go", cfg.OutputSuffix)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	// Given: a config file with overrides and an environment reference
	t.Setenv("BUILDER_SUFFIX", "Maker")
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(`
builder_suffix: ${BUILDER_SUFFIX}
types: [Person]
records:
  exclude: ["Internal*"]
watch:
  debounce: 1s
log_level: debug
`), 0o644))

	// When
	cfg, err := Load(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "Maker", cfg.BuilderSuffix)
	assert.Equal(t, "New", cfg.ConstructorPrefix)
	assert.Equal(t, []string{"Person"}, cfg.Types)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)

	filter, err := cfg.Filter()
	require.NoError(t, err)
	assert.False(t, filter.ShouldInclude("InternalThing"))
	assert.True(t, filter.ShouldInclude("Person"))

	level, err := ParseLevel(cfg.LogLevel)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	opts := cfg.GeneratorOptions(nil)
	assert.Equal(t, "Maker", opts.BuilderSuffix)
	assert.Equal(t, "Option", opts.WrapperName)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "wrapper_name: Maybe\n", "field wrapper_name not found"},
		{"bad wrapper", "wrapper: \"pkg.Option\"\n", "wrapper: \"pkg.Option\" is not a Go identifier"},
		{"bad suffix", "output_suffix: _builder.txt\n", "must end in .go"},
		{"test suffix", "output_suffix: _builder_test.go\n", "would produce test files"},
		{"bad level", "log_level: loud\n", "unknown level"},
		{"bad pattern", "records:\n  include: [\"[x\"]\n", "invalid pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	// No file: defaults
	cfg, err := LoadOrDefault("", dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// File in dir is picked up, empty content is fine
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFilename), nil, 0o644))
	cfg, err = LoadOrDefault("", dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// Explicit path wins
	explicit := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("constructor_prefix: Make\n"), 0o644))
	cfg, err = LoadOrDefault(explicit, dir)
	require.NoError(t, err)
	assert.Equal(t, "Make", cfg.ConstructorPrefix)
}
