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

// Package driver runs the extract, generate and write steps for the
// builder-gen command.
package driver

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/panyam/builder-gen/pkg/config"
	"github.com/panyam/builder-gen/pkg/extract/gosource"
	"github.com/panyam/builder-gen/pkg/extract/schemafile"
	"github.com/panyam/builder-gen/pkg/generator"
	"github.com/panyam/builder-gen/pkg/generator/common"
	"github.com/panyam/builder-gen/pkg/logfields"
	"github.com/panyam/builder-gen/pkg/schema"
)

// Driver ties a configuration to the extractors and the generator.
type Driver struct {
	Config *config.GenerationConfig
	Logger *slog.Logger

	// DryRun reports the files Write would change without touching them.
	DryRun bool
}

// New returns a driver. A nil config means config.Default(), a nil logger
// means slog.Default().
func New(cfg *config.GenerationConfig, logger *slog.Logger) *Driver {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{Config: cfg, Logger: logger}
}

// GoSource generates builders for the marked structs of the packages in
// dirs. Directories that fail to parse or generate are reported in the
// returned error; the result still holds everything that succeeded.
func (d *Driver) GoSource(dirs []string) (*generator.GenerateResult, error) {
	filter, err := d.Config.Filter()
	if err != nil {
		return nil, err
	}
	opts := gosource.Options{
		Types:        d.Config.Types,
		Filter:       filter,
		OutputSuffix: d.Config.OutputSuffix,
	}

	var schemas []*schema.FileSchema
	var errs []error
	for _, dir := range dirs {
		files, err := gosource.ParseDir(dir, opts)
		if err != nil {
			d.Logger.Error("Failed to extract records", logfields.Dir(dir), logfields.Error(err))
			errs = append(errs, err)
			continue
		}
		d.Logger.Debug("Extracted records", logfields.Dir(dir), logfields.Files(len(files)))
		schemas = append(schemas, files...)

		orphans, err := d.Orphans(dir, files)
		if err != nil {
			d.Logger.Warn("Failed to check for stale builders", logfields.Dir(dir), logfields.Error(err))
		}
		for _, path := range orphans {
			d.Logger.Warn("Stale builder file has no marked records left; delete it", logfields.Output(path))
		}
	}

	return d.generate(schemas, errs)
}

// Orphans lists the files in dir that builder-gen generated earlier but
// that none of files would produce now, e.g. after a struct lost its
// directive.
func (d *Driver) Orphans(dir string, files []*schema.FileSchema) ([]string, error) {
	expected := make(map[string]bool, len(files))
	for _, fs := range files {
		expected[filepath.Clean(fs.OutputPath)] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var orphans []string
	for _, entry := range entries {
		if entry.IsDir() || !common.IsGeneratedOutput(entry.Name(), d.Config.OutputSuffix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if expected[filepath.Clean(path)] {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return orphans, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if bytes.HasPrefix(content, []byte(generator.GeneratedHeader)) {
			orphans = append(orphans, path)
		}
	}
	return orphans, nil
}

// SchemaFiles generates builders from YAML, JSON or HCL schema files.
func (d *Driver) SchemaFiles(paths []string) (*generator.GenerateResult, error) {
	filter, err := d.Config.Filter()
	if err != nil {
		return nil, err
	}
	opts := schemafile.Options{
		WrapperName:  d.Config.WrapperName,
		Filter:       filter,
		OutputSuffix: d.Config.OutputSuffix,
	}

	var schemas []*schema.FileSchema
	var errs []error
	for _, path := range paths {
		fs, err := schemafile.Load(path, opts)
		if err != nil {
			d.Logger.Error("Failed to load schema file", logfields.File(path), logfields.Error(err))
			errs = append(errs, err)
			continue
		}
		if fs == nil {
			d.Logger.Debug("No records selected", logfields.File(path))
			continue
		}
		schemas = append(schemas, fs)
	}

	return d.generate(schemas, errs)
}

func (d *Driver) generate(schemas []*schema.FileSchema, errs []error) (*generator.GenerateResult, error) {
	start := time.Now()
	gen := generator.New(d.Config.GeneratorOptions(d.Logger))
	result, err := gen.Generate(schemas)
	if err != nil {
		errs = append(errs, err)
	}
	if result == nil {
		result = &generator.GenerateResult{}
	}
	d.Logger.Info("Generated builders",
		logfields.Files(len(result.Files)),
		logfields.Records(result.RecordCount()),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return result, errors.Join(errs...)
}

// Write writes every generated file whose content changed and returns the
// paths it wrote, in result order.
func (d *Driver) Write(result *generator.GenerateResult) ([]string, error) {
	if result == nil {
		return nil, nil
	}
	var written []string
	for _, file := range result.Files {
		existing, err := os.ReadFile(file.Path)
		if err == nil && bytes.Equal(existing, []byte(file.Content)) {
			d.Logger.Debug("Output unchanged", logfields.Output(file.Path))
			continue
		}
		if d.DryRun {
			d.Logger.Info("Would write builders", logfields.Output(file.Path), logfields.Records(len(file.Records)))
			written = append(written, file.Path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(file.Path), 0o755); err != nil {
			return written, fmt.Errorf("failed to create directory for %s: %w", file.Path, err)
		}
		if err := os.WriteFile(file.Path, []byte(file.Content), 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
		d.Logger.Info("Wrote builders", logfields.Output(file.Path), logfields.Records(len(file.Records)))
		written = append(written, file.Path)
	}
	return written, nil
}
