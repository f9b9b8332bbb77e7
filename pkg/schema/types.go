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

// Package schema holds the data model shared by the extractors and the
// generator: records, their fields and the files they are emitted into.
//
// Extractors build a FileSchema per input file. The classifier derives a
// copy of each RecordSchema with IsOptional set, and the generator turns the
// classified copy into Go source. Nothing downstream of an extractor mutates
// a schema in place.
package schema

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/panyam/builder-gen/pkg/generator/common"
)

// Presence is an explicit optional/required flag attached to a field by its
// extractor. PresenceInferred leaves the decision to the classifier, which
// looks at the shape of the declared type.
type Presence int

const (
	PresenceInferred Presence = iota
	PresenceOptional
	PresenceRequired
)

var presenceNames = []string{"inferred", "optional", "required"}

func (p Presence) String() string {
	if p < 0 || int(p) >= len(presenceNames) {
		return fmt.Sprintf("Presence(%d)", int(p))
	}
	return presenceNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Presence) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(presenceNames) {
		return nil, fmt.Errorf("invalid presence %d", int(p))
	}
	return []byte(presenceNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Presence) UnmarshalText(text []byte) error {
	parsed, err := ParsePresence(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePresence parses the spelling used in struct tags and schema files.
// The empty string means inferred.
func ParsePresence(s string) (Presence, error) {
	switch strings.TrimSpace(s) {
	case "", "inferred":
		return PresenceInferred, nil
	case "optional":
		return PresenceOptional, nil
	case "required":
		return PresenceRequired, nil
	}
	return PresenceInferred, fmt.Errorf("unknown presence %q (want optional or required)", s)
}

// TypeRef is a Go type expression as written in the record declaration,
// together with the imports needed to mention it from the generated file.
type TypeRef struct {
	// Expr is the type exactly as declared, e.g. "int", "[]*shopv1.Item",
	// "Option[string]".
	Expr string `json:"expr"`

	// Imports lists the packages Expr refers to.
	Imports []common.ImportSpec `json:"imports,omitempty"`
}

func (t TypeRef) String() string { return t.Expr }

// FieldDescriptor describes one field of a record.
type FieldDescriptor struct {
	Name     string   `json:"name"`
	Type     TypeRef  `json:"type"`
	Presence Presence `json:"presence"`

	// IsOptional is the classifier's verdict. Extractors leave it false.
	IsOptional bool `json:"isOptional"`

	Pos token.Position `json:"-"`
}

// RecordSchema is the ordered list of fields of one record type. Field order
// is declaration order and determines setter, slot and drain order.
type RecordSchema struct {
	TypeName string            `json:"typeName"`
	Fields   []FieldDescriptor `json:"fields"`

	// Pointer makes Build return *TypeName. Protobuf messages use this since
	// they must not be copied.
	Pointer bool `json:"pointer,omitempty"`

	// Declare asks the generated file to declare the record struct as well,
	// for records described only by a schema file.
	Declare bool `json:"declare,omitempty"`

	Pos token.Position `json:"-"`
}

// Exported reports whether the record name is exported.
func (r *RecordSchema) Exported() bool {
	first, _ := utf8.DecodeRuneInString(r.TypeName)
	return unicode.IsUpper(first)
}

// Field returns the field with the given name.
func (r *RecordSchema) Field(name string) (*FieldDescriptor, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the record.
func (r *RecordSchema) Clone() *RecordSchema {
	out := *r
	out.Fields = make([]FieldDescriptor, len(r.Fields))
	for i, f := range r.Fields {
		f.Type.Imports = append([]common.ImportSpec(nil), f.Type.Imports...)
		out.Fields[i] = f
	}
	return &out
}

// Imports returns every import referenced by the record's field types.
func (r *RecordSchema) Imports() []common.ImportSpec {
	var result []common.ImportSpec
	for _, f := range r.Fields {
		result = append(result, f.Type.Imports...)
	}
	return result
}

// FileSchema is one unit of output: the records that are generated into a
// single Go file.
type FileSchema struct {
	// PackageName is the Go package the output file belongs to.
	PackageName string `json:"packageName"`

	// Source is the input the records were extracted from, for the header.
	Source string `json:"source"`

	// OutputPath is where the generated file goes.
	OutputPath string `json:"outputPath"`

	// ImportPath is the Go import path of the package, when known.
	ImportPath string `json:"importPath,omitempty"`

	// Imports are extra imports declared for the whole file (schema files).
	Imports []common.ImportSpec `json:"imports,omitempty"`

	Records []*RecordSchema `json:"records"`
}

// SlotName is the name of the builder field that holds the value of field.
func SlotName(field string) string {
	return "slot" + Capitalize(field)
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + s[size:]
}

// WrapOptional returns the type expression that wraps expr in the runtime
// optional type.
func WrapOptional(expr string) string {
	return common.RuntimeAlias + ".Option[" + expr + "]"
}
