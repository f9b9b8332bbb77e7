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

/*
builder-gen generates fluent builders for Go struct types.

# Installation

	go install github.com/panyam/builder-gen/cmd/builder-gen@latest

# Marking records

A struct gets a builder when its doc comment carries the directive:

	//builder:generate
	type Person struct {
		A int
		B string
		C Option[string]
	}

Fields whose type is a bare Option reference are optional; every other
field must be set before Build. A `builder:"optional"` or
`builder:"required"` struct tag overrides the inference.

# Usage

	builder-gen [generate] [dirs...] [-t Type,...] [--dump] [--dry-run]
	builder-gen schema files...
	builder-gen watch [dirs...]

With go generate:

	//go:generate builder-gen .

Settings are read from .builder-gen.yaml in the working directory, or the
file named by -c.
*/
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/panyam/builder-gen/pkg/config"
)

var version = "dev"

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ./.builder-gen.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate builders for marked structs in Go packages"`
	Schema   SchemaCmd   `cmd:"" help:"Generate records and builders from YAML, JSON or HCL schema files"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate builders whenever package sources change"`

	stdout io.Writer `kong:"-"`
	stderr io.Writer `kong:"-"`
}

// setup loads the configuration and builds the logger for a command.
func (c *CLI) setup() (*config.GenerationConfig, *slog.Logger, error) {
	cfg, err := config.LoadOrDefault(c.Config, ".")
	if err != nil {
		return nil, nil, err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if c.Verbose {
		level = slog.LevelDebug
	}

	stderr := c.stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

func (c *CLI) out() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}
	return c.stdout
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("builder-gen"),
		kong.Description("Generate fluent builders for Go struct types."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
