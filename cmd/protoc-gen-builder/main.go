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
protoc-gen-builder is a Protocol Buffers compiler plugin that generates
fluent builders for the Go structs protoc-gen-go emits.

# Installation

	go install github.com/panyam/builder-gen/cmd/protoc-gen-builder@latest

# Usage with buf

Add to your buf.gen.yaml, writing next to the protoc-gen-go output:

	version: v2
	plugins:
	  - remote: buf.build/protocolbuffers/go
	    out: ./gen/go
	    opt: paths=source_relative

	  - local: protoc-gen-builder
	    out: ./gen/go
	    opt:
	      - paths=source_relative
	      - message_exclude=*Request

# Selecting messages

A message gets a builder when its leading comment contains the marker:

	// Book is a catalogued book.
	// builder:generate
	message Book {
	  string title = 1;
	  optional string subtitle = 2;
	}

Fields with explicit presence (proto3 optional, proto2 optional) become
optional builder slots; every other field must be set before Build.

# Configuration Options

  - all: Generate builders for every message, marked or not (default: false)
  - messages: Comma-separated list of messages to generate builders for
  - message_include: Comma-separated glob patterns for messages to include
  - message_exclude: Comma-separated glob patterns for messages to exclude
  - output_suffix: Suffix of generated files (default: "_builder.pb.go")
  - builder_suffix: Suffix of builder type names (default: "Builder")
  - constructor_prefix: Prefix of constructor names (default: "New")

# Generated Code

For the message above, book_builder.pb.go holds:

	b := libraryv1.NewBookBuilder().Title("Go")
	book, err := b.Build() // *libraryv1.Book
*/
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/protobuf/compiler/protogen"

	"github.com/panyam/builder-gen/pkg/protoplugin"
)

func main() {
	var flagSet flag.FlagSet
	var params protoplugin.Params
	params.Register(&flagSet)
	verbose := flagSet.Bool("verbose", false, "Log debug output to stderr")

	protogen.Options{
		ParamFunc: flagSet.Set,
	}.Run(func(gen *protogen.Plugin) error {
		// stdout carries the CodeGeneratorResponse
		level := slog.LevelWarn
		if *verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		logger.Debug("plugin started", slog.Int("files", len(gen.Files)), slog.String("parameters", gen.Request.GetParameter()))

		if err := protoplugin.Generate(gen, params, logger); err != nil {
			return fmt.Errorf("builder generation failed: %w", err)
		}
		return nil
	})
}
