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

// Package protoplugin generates builders inside a protoc plugin run, next
// to the structs protoc-gen-go emits.
package protoplugin

import (
	"flag"
	"fmt"
	"log/slog"

	"google.golang.org/protobuf/compiler/protogen"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/panyam/builder-gen/pkg/extract/protosource"
	"github.com/panyam/builder-gen/pkg/filters"
	"github.com/panyam/builder-gen/pkg/generator"
	"github.com/panyam/builder-gen/pkg/generator/common"
	"github.com/panyam/builder-gen/pkg/logfields"
)

// Params are the plugin parameters passed through protoc's --builder_opt.
type Params struct {
	All               bool
	Messages          string
	MessageInclude    string
	MessageExclude    string
	OutputSuffix      string
	BuilderSuffix     string
	ConstructorPrefix string
}

// Register binds the parameters to flags of fs, for protogen.Options.ParamFunc.
func (p *Params) Register(fs *flag.FlagSet) {
	fs.BoolVar(&p.All, "all", false, "Generate builders for every message, not only marked ones")
	fs.StringVar(&p.Messages, "messages", "", "Comma-separated list of messages to generate builders for")
	fs.StringVar(&p.MessageInclude, "message_include", "", "Comma-separated glob patterns for messages to include")
	fs.StringVar(&p.MessageExclude, "message_exclude", "", "Comma-separated glob patterns for messages to exclude")
	fs.StringVar(&p.OutputSuffix, "output_suffix", common.DefaultProtoOutputSuffix, "Suffix of generated file names")
	fs.StringVar(&p.BuilderSuffix, "builder_suffix", generator.DefaultBuilderSuffix, "Suffix of builder type names")
	fs.StringVar(&p.ConstructorPrefix, "constructor_prefix", generator.DefaultConstructorPrefix, "Prefix of builder constructor names")
}

// Generate emits one builder file per proto file that has selected
// messages. Any structural failure fails the whole run.
func Generate(gen *protogen.Plugin, params Params, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	gen.SupportedFeatures = uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)

	filterCriteria, err := filters.ParseFromConfig(params.Messages, params.MessageInclude, params.MessageExclude)
	if err != nil {
		return fmt.Errorf("invalid filter configuration: %w", err)
	}

	schemas, err := protosource.Extract(gen, protosource.Options{
		All:          params.All,
		Filter:       filterCriteria,
		OutputSuffix: params.OutputSuffix,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	importPaths := make(map[string]protogen.GoImportPath, len(schemas))
	for _, fs := range schemas {
		importPaths[fs.OutputPath] = protogen.GoImportPath(fs.ImportPath)
	}

	result, err := generator.New(generator.Options{
		BuilderSuffix:     params.BuilderSuffix,
		ConstructorPrefix: params.ConstructorPrefix,
		Logger:            logger,
	}).Generate(schemas)
	if err != nil {
		return err
	}

	for _, file := range result.Files {
		g := gen.NewGeneratedFile(file.Path, importPaths[file.Path])
		if _, err := g.Write([]byte(file.Content)); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
		logger.Debug("generated builder file",
			logfields.File(file.Source),
			logfields.Output(file.Path),
			logfields.Records(len(file.Records)))
	}
	return nil
}
