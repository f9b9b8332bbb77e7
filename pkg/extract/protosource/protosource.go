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

// Package protosource extracts record schemas from protobuf messages, for
// builders over the structs protoc-gen-go generates.
package protosource

import (
	"go/token"
	"log/slog"
	"strings"

	"google.golang.org/protobuf/compiler/protogen"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/panyam/builder-gen/pkg/filters"
	"github.com/panyam/builder-gen/pkg/generator/common"
	"github.com/panyam/builder-gen/pkg/logfields"
	"github.com/panyam/builder-gen/pkg/schema"
)

// Marker in a message's leading comment requests a builder for it.
const Marker = "builder:generate"

// Options configures extraction.
type Options struct {
	// All generates builders for every message, marked or not. Messages
	// that cannot have one are then skipped instead of failing.
	All bool

	// Filter further restricts the messages that are generated, by Go name.
	Filter *filters.FilterCriteria

	// OutputSuffix is appended to the generated filename prefix
	// (default "_builder.pb.go").
	OutputSuffix string

	// Logger reports skipped messages; slog.Default() when nil.
	Logger *slog.Logger
}

// MessageInfo links a record back to the proto message it came from.
type MessageInfo struct {
	Message *protogen.Message
	File    *protogen.File
	Record  *schema.RecordSchema
}

// CollectMessages finds the messages to build across all files marked for
// generation, top-level and nested, in declaration order. Map entry
// messages are never collected.
func CollectMessages(gen *protogen.Plugin, opts Options) ([]*MessageInfo, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var collected []*MessageInfo
	for _, file := range gen.Files {
		// Skip files not marked for generation (e.g., imported dependencies)
		if !file.Generate {
			continue
		}

		x := &fileExtractor{file: file, imports: make(common.ImportMap)}
		var visit func(msgs []*protogen.Message) error
		visit = func(msgs []*protogen.Message) error {
			for _, msg := range msgs {
				if msg.Desc.IsMapEntry() {
					continue
				}
				if (opts.All || isMarked(msg)) && opts.Filter.ShouldInclude(msg.GoIdent.GoName) {
					rec, err := x.record(msg)
					switch {
					case err != nil && opts.All && !isMarked(msg):
						logger.Debug("skipping message", logfields.Record(msg.GoIdent.GoName), logfields.Error(err))
					case err != nil:
						return err
					default:
						collected = append(collected, &MessageInfo{Message: msg, File: file, Record: rec})
					}
				}
				if err := visit(msg.Messages); err != nil {
					return err
				}
			}
			return nil
		}
		if err := visit(file.Messages); err != nil {
			return nil, err
		}
	}
	return collected, nil
}

// Extract groups the collected messages into one FileSchema per proto file.
func Extract(gen *protogen.Plugin, opts Options) ([]*schema.FileSchema, error) {
	messages, err := CollectMessages(gen, opts)
	if err != nil {
		return nil, err
	}

	suffix := opts.OutputSuffix
	if suffix == "" {
		suffix = common.DefaultProtoOutputSuffix
	}

	var result []*schema.FileSchema
	byFile := make(map[*protogen.File]*schema.FileSchema)
	for _, info := range messages {
		fs, ok := byFile[info.File]
		if !ok {
			fs = &schema.FileSchema{
				PackageName: string(info.File.GoPackageName),
				Source:      info.File.Desc.Path(),
				OutputPath:  info.File.GeneratedFilenamePrefix + suffix,
				ImportPath:  string(info.File.GoImportPath),
			}
			byFile[info.File] = fs
			result = append(result, fs)
		}
		fs.Records = append(fs.Records, info.Record)
	}
	return result, nil
}

func isMarked(msg *protogen.Message) bool {
	for _, line := range strings.Split(string(msg.Comments.Leading), "\n") {
		line = strings.TrimSpace(line)
		if line == Marker || strings.HasPrefix(line, Marker+" ") {
			return true
		}
	}
	return false
}

type fileExtractor struct {
	file *protogen.File
	// imports keeps aliases unique across all records of the file
	imports common.ImportMap
}

func (x *fileExtractor) position(desc protoreflect.Descriptor) token.Position {
	pos := token.Position{Filename: x.file.Desc.Path()}
	loc := x.file.Desc.SourceLocations().ByDescriptor(desc)
	if loc.Path != nil {
		pos.Line = loc.StartLine + 1
		pos.Column = loc.StartColumn + 1
	}
	return pos
}

func (x *fileExtractor) record(msg *protogen.Message) (*schema.RecordSchema, error) {
	name := msg.GoIdent.GoName
	rec := &schema.RecordSchema{
		TypeName: name,
		Pointer:  true,
		Pos:      x.position(msg.Desc),
	}

	for _, oneof := range msg.Oneofs {
		if !oneof.Desc.IsSynthetic() {
			return nil, schema.Structural(x.position(oneof.Desc), name, "oneof %s is not supported", oneof.Desc.Name())
		}
	}
	if len(msg.Fields) == 0 {
		return nil, schema.Structural(rec.Pos, name, "record has no fields")
	}

	for _, field := range msg.Fields {
		var used []common.ImportSpec
		qualify := func(ident protogen.GoIdent) string {
			if ident.GoImportPath == x.file.GoImportPath {
				return ident.GoName
			}
			info := common.ExtractPackageInfo(ident)
			alias := x.imports.AliasFor(info.ImportPath, info.Alias)
			used = append(used, common.ImportSpec{Alias: alias, Path: info.ImportPath})
			return alias + "." + ident.GoName
		}

		expr := common.ProtoFieldToGoType(field, qualify)
		rec.Fields = append(rec.Fields, schema.FieldDescriptor{
			Name:     field.GoName,
			Type:     schema.TypeRef{Expr: expr, Imports: used},
			Presence: fieldPresence(field),
			Pos:      x.position(field.Desc),
		})
	}
	return rec, nil
}

// fieldPresence makes a field optional when protoc-gen-go tracks whether it
// was set: the optional keyword, or explicit presence on a non-message,
// non-required field. Everything else must be set before Build.
func fieldPresence(field *protogen.Field) schema.Presence {
	desc := field.Desc
	if desc.HasOptionalKeyword() {
		return schema.PresenceOptional
	}
	if desc.HasPresence() && desc.Message() == nil && desc.Cardinality() != protoreflect.Required {
		return schema.PresenceOptional
	}
	return schema.PresenceRequired
}
