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

// Package generator turns record schemas into Go builder source.
//
// For every record it emits a builder struct with one slot per field, a
// zero-argument constructor, one fluent setter per field named after the
// field, and a Build method that drains the slots in declaration order and
// fails on the first required field that was never set. The output of a
// FileSchema is a single gofmt'ed Go file.
package generator

import (
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/panyam/builder-gen/pkg/classifier"
	"github.com/panyam/builder-gen/pkg/generator/common"
	"github.com/panyam/builder-gen/pkg/generator/types"
	"github.com/panyam/builder-gen/pkg/logfields"
	"github.com/panyam/builder-gen/pkg/schema"
)

// GeneratedHeader is the first line of every file the generator writes.
const GeneratedHeader = "// Code generated by builder-gen. DO NOT EDIT."

// GeneratedFile is an alias for the shared type
type GeneratedFile = types.GeneratedFile
type GenerateResult = types.GenerateResult

// Options configures a Generator.
type Options struct {
	// WrapperName is the optional wrapper type name (default "Option").
	WrapperName string

	// BuilderSuffix is appended to record names (default "Builder").
	BuilderSuffix string

	// ConstructorPrefix starts constructor names (default "New").
	ConstructorPrefix string

	// Logger receives debug output; slog.Default() when nil.
	Logger *slog.Logger
}

// Generator renders builders for record schemas.
type Generator struct {
	classifier *classifier.Classifier
	naming     Naming
	logger     *slog.Logger
}

// New creates a Generator.
func New(opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		classifier: classifier.New(opts.WrapperName),
		naming: Naming{
			BuilderSuffix:     opts.BuilderSuffix,
			ConstructorPrefix: opts.ConstructorPrefix,
		}.withDefaults(),
		logger: logger,
	}
}

// Generate generates one Go file per FileSchema.
//
// A file with a structural problem produces no output; its error is joined
// into the returned error and the remaining files are still generated.
//
// Returns:
//   - GenerateResult containing the files that could be generated
//   - error describing every file that could not
func (g *Generator) Generate(files []*schema.FileSchema) (*GenerateResult, error) {
	result := &GenerateResult{Files: []*GeneratedFile{}}
	var errs []error
	for _, fs := range files {
		file, err := g.GenerateFile(fs)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to generate code for %s: %w", fs.Source, err))
			continue
		}
		result.Add(file)
	}
	return result, errors.Join(errs...)
}

// GenerateFile generates the builders for every record in fs.
func (g *Generator) GenerateFile(fs *schema.FileSchema) (*GeneratedFile, error) {
	if err := fs.Validate(); err != nil {
		return nil, err
	}

	importsMap := make(common.ImportMap)
	importsMap.Add(common.RuntimeImport)
	for _, spec := range fs.Imports {
		if err := addImport(importsMap, spec); err != nil {
			return nil, schema.Structural(token.Position{Filename: fs.Source}, "", "%v", err)
		}
	}

	builders := make([]*BuilderSchema, 0, len(fs.Records))
	for _, rec := range fs.Records {
		classified := g.classifier.Classify(rec)
		for _, spec := range classified.Imports() {
			if err := addImport(importsMap, spec); err != nil {
				return nil, schema.Structural(rec.Pos, rec.TypeName, "%v", err)
			}
		}
		b := Synthesize(classified, g.naming)
		g.logger.Debug("synthesized builder",
			logfields.Record(rec.TypeName),
			slog.String("builder", b.TypeName),
			logfields.Fields(len(b.Slots)))
		builders = append(builders, b)
	}

	reserved, err := reservedNames(builders, importsMap)
	if err != nil {
		return nil, err
	}

	data := FileData{
		Source:      fs.Source,
		PackageName: fs.PackageName,
		Imports:     importsMap.Sorted(),
	}
	recordNames := make([]string, 0, len(builders))
	for _, b := range builders {
		data.Records = append(data.Records, buildRecordData(b, reserved))
		recordNames = append(recordNames, b.Record.TypeName)
	}

	raw, err := renderTemplate("file", data)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", fs.OutputPath, err)
	}

	formatted, err := imports.Process(fs.OutputPath, raw, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", fs.OutputPath, err)
	}

	return &GeneratedFile{
		Path:    fs.OutputPath,
		Content: string(formatted),
		Source:  fs.Source,
		Records: recordNames,
	}, nil
}

func buildRecordData(b *BuilderSchema, reserved map[string]bool) RecordData {
	rd := RecordData{
		Builder: BuilderData{
			Name:   b.TypeName,
			Record: b.Record.TypeName,
			Slots:  b.Slots,
		},
		Constructor: Constructor(b),
		Setters:     Setters(b, reserved),
		Finalizer:   Finalizer(b, reserved),
	}
	if b.Record.Declare {
		decl := &DeclarationData{Name: b.Record.TypeName}
		for _, f := range b.Record.Fields {
			decl.Fields = append(decl.Fields, DeclaredField{Name: f.Name, Type: f.Type.Expr})
		}
		rd.Declaration = decl
	}
	return rd
}

// addImport adds spec to m with an explicit alias for non-standard
// packages, so the formatter never has to load a package to learn its name.
// Two paths may not be imported under the same name.
func addImport(m common.ImportMap, spec common.ImportSpec) error {
	spec = normalizeImport(spec)
	if existing, ok := m[spec.Path]; ok {
		if existing.Name() != spec.Name() {
			return fmt.Errorf("package %s is imported as both %s and %s", spec.Path, existing.Name(), spec.Name())
		}
		return nil
	}
	if spec.Alias != "." && spec.Alias != "_" {
		for _, other := range m {
			if other.Name() == spec.Name() {
				return fmt.Errorf("import name %s is used for both %s and %s", spec.Name(), other.Path, spec.Path)
			}
		}
	}
	m.Add(spec)
	return nil
}

func normalizeImport(spec common.ImportSpec) common.ImportSpec {
	spec.Path = common.CleanImportPath(spec.Path)
	guessed := common.GuessPackageName(spec.Path)
	switch {
	case spec.Alias == "" && !isStdlib(spec.Path):
		spec.Alias = guessed
	case spec.Alias == guessed && isStdlib(spec.Path):
		spec.Alias = ""
	}
	return spec
}

// isStdlib uses the same heuristic as the go command: standard library
// paths have no dot in their first element.
func isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

// reservedNames collects the identifiers generated local variables must
// not shadow, and rejects files whose generated declarations collide.
func reservedNames(builders []*BuilderSchema, importsMap common.ImportMap) (map[string]bool, error) {
	reserved := make(map[string]bool)
	for _, spec := range importsMap {
		reserved[spec.Name()] = true
	}

	declared := make(map[string]string)
	for _, b := range builders {
		declared[b.Record.TypeName] = b.Record.TypeName
	}
	for _, b := range builders {
		reserved[b.Record.TypeName] = true
		for _, name := range b.Names() {
			if owner, ok := declared[name]; ok {
				return nil, schema.Structural(b.Record.Pos, b.Record.TypeName,
					"generated name %s collides with a declaration for %s", name, owner)
			}
			declared[name] = b.Record.TypeName
			reserved[name] = true
		}
	}
	return reserved, nil
}
