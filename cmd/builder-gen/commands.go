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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"

	"github.com/panyam/builder-gen/pkg/config"
	"github.com/panyam/builder-gen/pkg/driver"
	"github.com/panyam/builder-gen/pkg/generator"
	"github.com/panyam/builder-gen/pkg/logfields"
	"github.com/panyam/builder-gen/pkg/watch"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Dirs   []string `arg:"" optional:"" type:"existingdir" default:"." help:"Package directories to scan"`
	Types  []string `short:"t" sep:"," help:"Types to generate even without the //builder:generate directive"`
	Dump   bool     `help:"Print the generated files as JSON instead of writing them"`
	DryRun bool     `name:"dry-run" help:"Report the files that would change without writing them"`
}

func (g *GenerateCmd) Run(cli *CLI) error {
	cfg, logger, err := cli.setup()
	if err != nil {
		return err
	}
	cfg.Types = append(cfg.Types, g.Types...)

	d := driver.New(cfg, logger)
	d.DryRun = g.DryRun
	result, genErr := d.GoSource(g.Dirs)
	return cli.emit(d, result, genErr, g.Dump)
}

// SchemaCmd implements the 'schema' command.
type SchemaCmd struct {
	Files  []string `arg:"" type:"existingfile" help:"Schema files (.yaml, .yml, .json or .hcl)"`
	Dump   bool     `help:"Print the generated files as JSON instead of writing them"`
	DryRun bool     `name:"dry-run" help:"Report the files that would change without writing them"`
}

func (s *SchemaCmd) Run(cli *CLI) error {
	cfg, logger, err := cli.setup()
	if err != nil {
		return err
	}

	d := driver.New(cfg, logger)
	d.DryRun = s.DryRun
	result, genErr := d.SchemaFiles(s.Files)
	return cli.emit(d, result, genErr, s.Dump)
}

// emit writes or dumps what was generated. Files that failed are already
// absent from result; their error is still returned so the exit code
// reflects them.
func (c *CLI) emit(d *driver.Driver, result *generator.GenerateResult, genErr error, dump bool) error {
	if result == nil {
		return genErr
	}
	if dump {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return errors.Join(genErr, fmt.Errorf("failed to encode result: %w", err))
		}
		if _, err := fmt.Fprintln(c.out(), string(data)); err != nil {
			return errors.Join(genErr, err)
		}
		return genErr
	}
	if _, err := d.Write(result); err != nil {
		return errors.Join(genErr, err)
	}
	return genErr
}

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Dirs  []string `arg:"" optional:"" type:"existingdir" default:"." help:"Package directories to watch"`
	Types []string `short:"t" sep:"," help:"Types to generate even without the //builder:generate directive"`
}

func (w *WatchCmd) Run(cli *CLI) error {
	cfg, logger, err := cli.setup()
	if err != nil {
		return err
	}
	cfg.Types = append(cfg.Types, w.Types...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runWatch(ctx, cfg, logger, w.Dirs)
}

// runWatch generates once and then on every source change until ctx ends.
func runWatch(ctx context.Context, cfg *config.GenerationConfig, logger *slog.Logger, dirs []string) error {
	d := driver.New(cfg, logger)
	regenerate := func(_ context.Context, dir string) error {
		result, genErr := d.GoSource([]string{dir})
		if _, err := d.Write(result); err != nil {
			return errors.Join(genErr, err)
		}
		return genErr
	}

	watcher, err := watch.New(dirs, regenerate, watch.Options{
		Debounce:     cfg.Watch.Debounce,
		OutputSuffix: cfg.OutputSuffix,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	for _, dir := range watcher.Dirs() {
		if err := regenerate(ctx, dir); err != nil {
			logger.Error("Initial generation failed", logfields.Dir(dir), logfields.Error(err))
		}
	}
	return watcher.Run(ctx)
}
