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

// Package gosource extracts record schemas from Go struct declarations.
//
// A struct is picked up when its doc comment carries the directive
//
//	//builder:generate
//
// or when its name is listed in Options.Types. Field types are copied
// verbatim from the source, and a struct tag `builder:"optional"` or
// `builder:"required"` overrides the classifier's structural rule.
package gosource

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/panyam/builder-gen/pkg/filters"
	"github.com/panyam/builder-gen/pkg/generator/common"
	"github.com/panyam/builder-gen/pkg/schema"
)

// Directive marks a struct type for builder generation.
const Directive = "builder:generate"

// TagKey is the struct tag key for explicit presence.
const TagKey = "builder"

// Options configures extraction.
type Options struct {
	// Types are generated even without the directive.
	Types []string

	// Filter further restricts the records that are generated.
	Filter *filters.FilterCriteria

	// OutputSuffix replaces ".go" in output file names (default "_builder.go").
	OutputSuffix string

	// ImportPath is recorded on every FileSchema when set.
	ImportPath string
}

func (o Options) suffix() string {
	if o.OutputSuffix == "" {
		return common.DefaultOutputSuffix
	}
	return o.OutputSuffix
}

// ParseDir extracts the marked records of the package in dir. Test files,
// generated files and files without marked records are skipped. The result
// has one FileSchema per source file that has records, sorted by path.
func ParseDir(dir string, opts Options) ([]*schema.FileSchema, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	var files []*ast.File
	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		if common.IsGeneratedOutput(name, opts.suffix()) {
			continue
		}
		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if ast.IsGenerated(file) {
			continue
		}
		files = append(files, file)
		paths = append(paths, path)
	}

	return extractPackage(fset, files, paths, opts)
}

// ParseSource extracts the marked records of a single file. src may be nil,
// a string, []byte or io.Reader as for go/parser.ParseFile. A file without
// marked records yields nil.
func ParseSource(filename string, src any, opts Options) (*schema.FileSchema, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	result, err := extractPackage(fset, []*ast.File{file}, []string{filename}, opts)
	if err != nil || len(result) == 0 {
		return nil, err
	}
	return result[0], nil
}

func extractPackage(fset *token.FileSet, files []*ast.File, paths []string, opts Options) ([]*schema.FileSchema, error) {
	if len(files) == 0 {
		return nil, nil
	}

	pkgName := files[0].Name.Name
	declared := make(map[string]bool)
	for i, file := range files {
		if file.Name.Name != pkgName {
			return nil, fmt.Errorf("found packages %s and %s in %s", pkgName, file.Name.Name, filepath.Dir(paths[i]))
		}
		collectDeclared(file, declared)
	}

	wanted := make(map[string]bool, len(opts.Types))
	for _, name := range opts.Types {
		wanted[name] = true
		if !declared[name] {
			return nil, schema.Structural(token.Position{Filename: filepath.Dir(paths[0])}, name, "type not found in package %s", pkgName)
		}
	}

	var result []*schema.FileSchema
	for i, file := range files {
		x := &fileExtractor{
			fset:     fset,
			file:     file,
			declared: declared,
			imports:  fileImports(file),
		}
		records, err := x.records(wanted, opts.Filter)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			continue
		}
		result = append(result, &schema.FileSchema{
			PackageName: pkgName,
			Source:      filepath.Base(paths[i]),
			OutputPath:  common.OutputFilename(paths[i], opts.suffix()),
			ImportPath:  opts.ImportPath,
			Records:     records,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].OutputPath < result[j].OutputPath })
	return result, nil
}

// collectDeclared records every package-level identifier of file.
func collectDeclared(file *ast.File, declared map[string]bool) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				declared[d.Name.Name] = true
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					declared[s.Name.Name] = true
				case *ast.ValueSpec:
					for _, name := range s.Names {
						declared[name.Name] = true
					}
				}
			}
		}
	}
}

// fileImports maps the name each import is referred to by to its spec.
// Dot imports are collected under ".".
func fileImports(file *ast.File) map[string][]common.ImportSpec {
	result := make(map[string][]common.ImportSpec)
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		spec := common.ImportSpec{Path: path}
		if imp.Name != nil {
			spec.Alias = imp.Name.Name
		}
		name := spec.Name()
		result[name] = append(result[name], spec)
	}
	return result
}

// HasDirective reports whether a comment group carries the generate
// directive.
func HasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
		if text == Directive || strings.HasPrefix(text, Directive+" ") {
			return true
		}
	}
	return false
}

type fileExtractor struct {
	fset     *token.FileSet
	file     *ast.File
	declared map[string]bool
	imports  map[string][]common.ImportSpec
}

func (x *fileExtractor) records(wanted map[string]bool, filter *filters.FilterCriteria) ([]*schema.RecordSchema, error) {
	var result []*schema.RecordSchema
	for _, decl := range x.file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		// A directive on a parenthesised group would apply to every type in it
		groupMarked := !gd.Lparen.IsValid() && HasDirective(gd.Doc)
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if !groupMarked && !HasDirective(ts.Doc) && !wanted[ts.Name.Name] {
				continue
			}
			if !filter.ShouldInclude(ts.Name.Name) {
				continue
			}
			rec, err := x.record(ts)
			if err != nil {
				return nil, err
			}
			result = append(result, rec)
		}
	}
	return result, nil
}

func (x *fileExtractor) record(ts *ast.TypeSpec) (*schema.RecordSchema, error) {
	name := ts.Name.Name
	pos := x.fset.Position(ts.Pos())

	switch {
	case ts.Assign.IsValid():
		return nil, schema.Structural(pos, name, "type aliases are not supported")
	case ts.TypeParams != nil && len(ts.TypeParams.List) > 0:
		return nil, schema.Structural(pos, name, "generic types are not supported")
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return nil, schema.Structural(pos, name, "not a struct type")
	}

	rec := &schema.RecordSchema{TypeName: name, Pos: pos}
	for _, fld := range st.Fields.List {
		if len(fld.Names) == 0 {
			return nil, schema.Structural(x.fset.Position(fld.Pos()), name, "embedded field %s is not supported", x.exprString(fld.Type))
		}

		presence, err := tagPresence(fld.Tag)
		if err != nil {
			return nil, schema.Structural(x.fset.Position(fld.Pos()), name, "%v", err)
		}

		ref, err := x.typeRef(fld.Type)
		if err != nil {
			return nil, schema.Structural(x.fset.Position(fld.Type.Pos()), name, "%v", err)
		}

		for _, ident := range fld.Names {
			if ident.Name == "_" {
				continue
			}
			rec.Fields = append(rec.Fields, schema.FieldDescriptor{
				Name:     ident.Name,
				Type:     ref,
				Presence: presence,
				Pos:      x.fset.Position(ident.Pos()),
			})
		}
	}

	if len(rec.Fields) == 0 {
		return nil, schema.Structural(pos, name, "record has no fields")
	}
	return rec, nil
}

// tagPresence reads the builder struct tag.
func tagPresence(tag *ast.BasicLit) (schema.Presence, error) {
	if tag == nil {
		return schema.PresenceInferred, nil
	}
	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return schema.PresenceInferred, fmt.Errorf("malformed struct tag %s", tag.Value)
	}
	value, ok := reflect.StructTag(raw).Lookup(TagKey)
	if !ok {
		return schema.PresenceInferred, nil
	}
	presence, err := schema.ParsePresence(value)
	if err != nil {
		return schema.PresenceInferred, fmt.Errorf("tag %s: %w", TagKey, err)
	}
	return presence, nil
}

func (x *fileExtractor) exprString(expr ast.Expr) string {
	var buf bytes.Buffer
	_ = printer.Fprint(&buf, x.fset, expr)
	return buf.String()
}

// typeRef prints expr and resolves the imports it needs.
func (x *fileExtractor) typeRef(expr ast.Expr) (schema.TypeRef, error) {
	ref := schema.TypeRef{Expr: x.exprString(expr)}

	qualifiers, bare := typeIdents(expr)
	seen := make(map[string]bool)
	for _, pkg := range qualifiers {
		specs := x.imports[pkg]
		if len(specs) == 0 {
			return ref, fmt.Errorf("cannot resolve package %s in %s; add an explicit import name", pkg, ref.Expr)
		}
		if !seen[specs[0].Path] {
			seen[specs[0].Path] = true
			ref.Imports = append(ref.Imports, common.ImportSpec{Alias: pkg, Path: specs[0].Path})
		}
	}

	// Unqualified names that the package does not declare can only come
	// from a dot import.
	for _, name := range bare {
		if x.declared[name] || types.Universe.Lookup(name) != nil {
			continue
		}
		for _, spec := range x.imports["."] {
			if !seen[spec.Path] {
				seen[spec.Path] = true
				ref.Imports = append(ref.Imports, spec)
			}
		}
		break
	}
	return ref, nil
}

// typeIdents returns the package qualifiers and the unqualified identifiers
// a type expression mentions, in order of appearance. Field names inside
// inline struct, func and interface types are not included.
func typeIdents(expr ast.Expr) (qualifiers, bare []string) {
	var visit func(n ast.Node) bool
	visit = func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Field:
			ast.Inspect(n.Type, visit)
			return false
		case *ast.SelectorExpr:
			if pkg, ok := n.X.(*ast.Ident); ok {
				qualifiers = append(qualifiers, pkg.Name)
				return false
			}
		case *ast.Ident:
			bare = append(bare, n.Name)
		}
		return true
	}
	ast.Inspect(expr, visit)
	return qualifiers, bare
}
