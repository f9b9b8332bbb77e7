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

// Package schemafile reads record descriptions from YAML, JSON or HCL files,
// for records that have no Go declaration to extract from.
//
// A YAML schema file looks like
//
//	package: people
//	imports:
//	  - path: time
//	records:
//	  - name: Person
//	    fields:
//	      - {name: Name, type: string}
//	      - {name: Born, type: time.Time, optional: true}
//
// and the HCL form of the same is
//
//	package = "people"
//	import { path = "time" }
//	record "Person" {
//	  field "Name" { type = "string" }
//	  field "Born" {
//	    type     = "time.Time"
//	    optional = true
//	  }
//	}
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/panyam/builder-gen/pkg/classifier"
	"github.com/panyam/builder-gen/pkg/filters"
	"github.com/panyam/builder-gen/pkg/generator/common"
	"github.com/panyam/builder-gen/pkg/schema"
)

// Format is a schema file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("unsupported schema file %s (want .yaml, .yml, .json or .hcl)", path)
}

// Document is the decoded content of a schema file.
type Document struct {
	Package string       `yaml:"package" json:"package" hcl:"package"`
	Output  string       `yaml:"output,omitempty" json:"output,omitempty" hcl:"output,optional"`
	Imports []ImportDecl `yaml:"imports,omitempty" json:"imports,omitempty" hcl:"import,block"`
	Records []RecordDecl `yaml:"records" json:"records" hcl:"record,block"`
}

// ImportDecl is an import the field types need.
type ImportDecl struct {
	Alias string `yaml:"alias,omitempty" json:"alias,omitempty" hcl:"alias,optional"`
	Path  string `yaml:"path" json:"path" hcl:"path"`
}

// RecordDecl describes one record.
type RecordDecl struct {
	Name string `yaml:"name" json:"name" hcl:"name,label"`

	// Pointer makes Build return a pointer.
	Pointer bool `yaml:"pointer,omitempty" json:"pointer,omitempty" hcl:"pointer,optional"`

	// External records are declared elsewhere in the package; only the
	// builder is generated.
	External bool `yaml:"external,omitempty" json:"external,omitempty" hcl:"external,optional"`

	Fields []FieldDecl `yaml:"fields" json:"fields" hcl:"field,block"`
}

// FieldDecl describes one field. Optional left unset means the classifier
// decides from the type.
type FieldDecl struct {
	Name     string `yaml:"name" json:"name" hcl:"name,label"`
	Type     string `yaml:"type" json:"type" hcl:"type"`
	Optional *bool  `yaml:"optional,omitempty" json:"optional,omitempty" hcl:"optional,optional"`
}

// Options configures conversion of documents into file schemas.
type Options struct {
	// WrapperName is the optional wrapper recognised in field types.
	WrapperName string

	// Filter restricts the records that are generated.
	Filter *filters.FilterCriteria

	// OutputSuffix names the output when the document has no output
	// (default "_builder.go").
	OutputSuffix string
}

// Load reads and converts a schema file.
func Load(path string, opts Options) (*schema.FileSchema, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	doc, err := Parse(data, path, format)
	if err != nil {
		return nil, err
	}
	return doc.FileSchema(path, opts)
}

// Parse decodes a schema document. Unknown keys are errors in every format.
func Parse(data []byte, filename string, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("schema file %s is empty", filename)
			}
			return nil, fmt.Errorf("failed to decode YAML schema %s: %w", filename, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode JSON schema %s: %w", filename, err)
		}
	case FormatHCL:
		file, diags := hclparse.NewParser().ParseHCL(data, filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL schema %s: %w", filename, diags)
		}
		diags = gohcl.DecodeBody(file.Body, nil, &doc)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL schema %s: %w", filename, diags)
		}
	default:
		return nil, fmt.Errorf("unknown schema format %q", format)
	}
	return &doc, nil
}

// FileSchema converts the document read from path. Records are declared by
// the generated file unless marked external; an optional field of a
// declared record is given the runtime optional type unless its type
// already is an optional wrapper.
func (d *Document) FileSchema(path string, opts Options) (*schema.FileSchema, error) {
	pos := token.Position{Filename: path}
	if len(d.Records) == 0 {
		return nil, schema.Structural(pos, "", "schema file declares no records")
	}

	suffix := opts.OutputSuffix
	if suffix == "" {
		suffix = common.DefaultOutputSuffix
	}
	output := common.OutputFilename(path, suffix)
	if d.Output != "" {
		output = d.Output
		if !filepath.IsAbs(output) {
			output = filepath.Join(filepath.Dir(path), output)
		}
	}

	fs := &schema.FileSchema{
		PackageName: d.Package,
		Source:      filepath.Base(path),
		OutputPath:  output,
	}
	for _, imp := range d.Imports {
		if imp.Path == "" {
			return nil, schema.Structural(pos, "", "import without a path")
		}
		fs.Imports = append(fs.Imports, common.ImportSpec{Alias: imp.Alias, Path: imp.Path})
	}

	c := classifier.New(opts.WrapperName)
	for _, rd := range d.Records {
		if !opts.Filter.ShouldInclude(rd.Name) {
			continue
		}
		rec := &schema.RecordSchema{
			TypeName: rd.Name,
			Pointer:  rd.Pointer,
			Declare:  !rd.External,
			Pos:      pos,
		}
		for _, fd := range rd.Fields {
			field := schema.FieldDescriptor{
				Name: fd.Name,
				Type: schema.TypeRef{Expr: strings.TrimSpace(fd.Type)},
				Pos:  pos,
			}
			if fd.Optional != nil {
				field.Presence = schema.PresenceRequired
				if *fd.Optional {
					field.Presence = schema.PresenceOptional
					if rec.Declare && !c.IsOptional(field.Type.Expr) && !isRuntimeOption(field.Type.Expr) {
						field.Type.Expr = schema.WrapOptional(field.Type.Expr)
					}
				}
			}
			rec.Fields = append(rec.Fields, field)
		}
		fs.Records = append(fs.Records, rec)
	}
	if len(fs.Records) == 0 {
		return nil, nil
	}
	return fs, nil
}

func isRuntimeOption(expr string) bool {
	return strings.HasPrefix(expr, common.RuntimeAlias+".Option[")
}
