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

package gosource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/builder-gen/pkg/filters"
	"github.com/panyam/builder-gen/pkg/generator/common"
	"github.com/panyam/builder-gen/pkg/schema"
)

const peopleSrc = `package people

import (
	"time"

	bk "github.com/panyam/builder-gen/pkg/buildkit"
	"gopkg.in/yaml.v3"
)

type Option[T any] = bk.Option[T]

//builder:generate
type Person struct {
	A int
	B string
	C Option[string]
}

// Event is marked through its doc comment.
//
//builder:generate
type Event struct {
	At, Until time.Time
	Meta      *yaml.Node
	_         struct{}
	Note      bk.Option[string] ` + "`builder:\"optional\"`" + `
	Count     Option[int]       ` + "`json:\"count\" builder:\"required\"`" + `
}

type Unmarked struct {
	X int
}
`

// ignoring positions keeps expectations readable
var ignorePos = cmpopts.IgnoreFields(schema.FieldDescriptor{}, "Pos")

func TestParseSource(t *testing.T) {
	// Given: a file with two marked records and one unmarked
	fs, err := ParseSource("people/people.go", peopleSrc, Options{})

	// Then: only the marked ones are extracted, in order
	require.NoError(t, err)
	require.NotNil(t, fs)
	assert.Equal(t, "people", fs.PackageName)
	assert.Equal(t, "people.go", fs.Source)
	assert.Equal(t, filepath.Join("people", "people_builder.go"), filepath.FromSlash(fs.OutputPath))
	require.Len(t, fs.Records, 2)

	person := fs.Records[0]
	assert.Equal(t, "Person", person.TypeName)
	assert.Equal(t, 13, person.Pos.Line)
	want := []schema.FieldDescriptor{
		{Name: "A", Type: schema.TypeRef{Expr: "int"}},
		{Name: "B", Type: schema.TypeRef{Expr: "string"}},
		{Name: "C", Type: schema.TypeRef{Expr: "Option[string]"}},
	}
	if diff := cmp.Diff(want, person.Fields, ignorePos); diff != "" {
		t.Errorf("Person fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSource_TypesImportsAndTags(t *testing.T) {
	fs, err := ParseSource("people.go", peopleSrc, Options{})
	require.NoError(t, err)

	event := fs.Records[1]
	timeRef := schema.TypeRef{Expr: "time.Time", Imports: []common.ImportSpec{{Alias: "time", Path: "time"}}}
	want := []schema.FieldDescriptor{
		{Name: "At", Type: timeRef},
		{Name: "Until", Type: timeRef},
		{Name: "Meta", Type: schema.TypeRef{Expr: "*yaml.Node", Imports: []common.ImportSpec{{Alias: "yaml", Path: "gopkg.in/yaml.v3"}}}},
		{
			Name:     "Note",
			Type:     schema.TypeRef{Expr: "bk.Option[string]", Imports: []common.ImportSpec{{Alias: "bk", Path: "github.com/panyam/builder-gen/pkg/buildkit"}}},
			Presence: schema.PresenceOptional,
		},
		{Name: "Count", Type: schema.TypeRef{Expr: "Option[int]"}, Presence: schema.PresenceRequired},
	}
	if diff := cmp.Diff(want, event.Fields, ignorePos); diff != "" {
		t.Errorf("Event fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSource_TypesOptionAndFilter(t *testing.T) {
	// Given: an unmarked type requested by name
	fs, err := ParseSource("people.go", peopleSrc, Options{Types: []string{"Unmarked"}})
	require.NoError(t, err)
	require.Len(t, fs.Records, 3)
	assert.Equal(t, "Unmarked", fs.Records[2].TypeName)

	// Given: a filter excluding Event
	filter, err := filters.ParseFromConfig("", "", "Ev*")
	require.NoError(t, err)
	fs, err = ParseSource("people.go", peopleSrc, Options{Filter: filter})
	require.NoError(t, err)
	require.Len(t, fs.Records, 1)
	assert.Equal(t, "Person", fs.Records[0].TypeName)

	// Given: a requested type that does not exist
	_, err = ParseSource("people.go", peopleSrc, Options{Types: []string{"Missing"}})
	assert.ErrorIs(t, err, schema.ErrUnsupportedShape)
	assert.ErrorContains(t, err, "type not found")
}

func TestParseSource_NoRecords(t *testing.T) {
	fs, err := ParseSource("plain.go", "package plain\n\ntype X struct{ A int }\n", Options{})
	require.NoError(t, err)
	assert.Nil(t, fs)
}

func TestParseSource_DotImport(t *testing.T) {
	src := `package app

import . "github.com/panyam/builder-gen/pkg/buildkit"

type Local struct{}

//builder:generate
type Config struct {
	Name  string
	Port  Option[int]
	Inner Local
}
`
	fs, err := ParseSource("app.go", src, Options{})
	require.NoError(t, err)

	fields := fs.Records[0].Fields
	assert.Empty(t, fields[0].Type.Imports, "predeclared")
	assert.Equal(t, []common.ImportSpec{{Alias: ".", Path: "github.com/panyam/builder-gen/pkg/buildkit"}}, fields[1].Type.Imports)
	assert.Empty(t, fields[2].Type.Imports, "declared in the package")
}

func TestParseSource_StructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		decl    string
		wantErr string
	}{
		{"not a struct", "//builder:generate\ntype ID int", "not a struct type"},
		{"alias", "//builder:generate\ntype P = struct{ A int }", "type aliases are not supported"},
		{"generic", "//builder:generate\ntype Box[T any] struct{ V T }", "generic types are not supported"},
		{"embedded", "type Base struct{}\n\n//builder:generate\ntype P struct {\n\tBase\n\tA int\n}", "embedded field Base"},
		{"empty", "//builder:generate\ntype P struct{}", "record has no fields"},
		{"only blank", "//builder:generate\ntype P struct{ _ int }", "record has no fields"},
		{"bad tag", "//builder:generate\ntype P struct {\n\tA int `builder:\"sometimes\"`\n}", "unknown presence"},
		{"unknown package", "//builder:generate\ntype P struct{ A foo.Bar }", "cannot resolve package foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource("p.go", "package p\n\n"+tt.decl+"\n", Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrUnsupportedShape)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "p.go:")
		})
	}
}

func TestParseSource_GroupedDecl(t *testing.T) {
	// A directive on a parenthesised group does not mark its members
	src := "package p\n\n//builder:generate\ntype (\n\tA struct{ X int }\n\t// builder:generate\n\tB struct{ Y int }\n)\n"
	fs, err := ParseSource("p.go", src, Options{})
	require.NoError(t, err)
	require.Len(t, fs.Records, 1)
	assert.Equal(t, "B", fs.Records[0].TypeName)
}

func TestParseDir(t *testing.T) {
	// Given: a package directory with sources, a test and a generated file
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("people.go", peopleSrc)
	write("order.go", "package people\n\n//builder:generate\ntype Order struct{ ID string }\n")
	write("plain.go", "package people\n\nfunc helper() {}\n")
	write("people_test.go", "package people_test\n\n//builder:generate\ntype Fixture struct{ A int }\n")
	write("people_builder.go", "// Code generated by builder-gen. DO NOT EDIT.\n\npackage people\n\n//builder:generate\ntype Ghost struct{ A int }\n")
	write("other_gen.go", "// Code generated by stringer. DO NOT EDIT.\n\npackage people\n\n//builder:generate\ntype Shadow struct{ A int }\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	// When
	files, err := ParseDir(dir, Options{})

	// Then: one schema per file with records, sorted by output path
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "order_builder.go"), files[0].OutputPath)
	assert.Equal(t, filepath.Join(dir, "people_builder.go"), files[1].OutputPath)
	assert.Equal(t, "Order", files[0].Records[0].TypeName)
	assert.Len(t, files[1].Records, 2)
}

func TestParseDir_MixedPackages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("package b\n"), 0o644))

	_, err := ParseDir(dir, Options{})
	assert.ErrorContains(t, err, "found packages a and b")
}

func TestHasDirective(t *testing.T) {
	fs, err := ParseSource("p.go", "package p\n\n// Doc text.\n//builder:generate extra\ntype P struct{ A int }\n", Options{})
	require.NoError(t, err)
	require.NotNil(t, fs)
	assert.False(t, HasDirective(nil))
}
