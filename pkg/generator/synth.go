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

package generator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/panyam/builder-gen/pkg/schema"
)

const (
	// DefaultBuilderSuffix is appended to the record name to name its builder.
	DefaultBuilderSuffix = "Builder"

	// DefaultConstructorPrefix starts the name of the builder constructor.
	DefaultConstructorPrefix = "New"
)

// Naming controls the identifiers generated for each record.
type Naming struct {
	BuilderSuffix     string
	ConstructorPrefix string
}

// DefaultNaming yields PersonBuilder and NewPersonBuilder for Person.
func DefaultNaming() Naming {
	return Naming{
		BuilderSuffix:     DefaultBuilderSuffix,
		ConstructorPrefix: DefaultConstructorPrefix,
	}
}

func (n Naming) withDefaults() Naming {
	if n.BuilderSuffix == "" {
		n.BuilderSuffix = DefaultBuilderSuffix
	}
	if n.ConstructorPrefix == "" {
		n.ConstructorPrefix = DefaultConstructorPrefix
	}
	return n
}

// BuilderName returns the builder type name for record. The builder is
// exported exactly when the record is.
func (n Naming) BuilderName(record string) string {
	return record + n.withDefaults().BuilderSuffix
}

// ConstructorName returns the constructor name for record, e.g.
// NewPersonBuilder for Person and newPersonBuilder for person.
func (n Naming) ConstructorName(record string) string {
	n = n.withDefaults()
	prefix := n.ConstructorPrefix
	if !isExported(record) {
		prefix = lowerFirst(prefix)
	}
	return prefix + schema.Capitalize(record) + n.BuilderSuffix
}

// Slot is the builder's storage for one record field.
type Slot struct {
	FieldName    string
	SlotName     string
	DeclaredType string
	// StorageType is buildkit.Option[DeclaredType] for required fields and
	// DeclaredType itself for optional ones.
	StorageType string
	Optional    bool
}

// BuilderSchema describes the builder generated for one record.
type BuilderSchema struct {
	Record      *schema.RecordSchema
	TypeName    string
	Constructor string
	Slots       []Slot
}

// Synthesize derives the builder for a classified record: one slot per field,
// in field order. The record must already be validated.
func Synthesize(rec *schema.RecordSchema, naming Naming) *BuilderSchema {
	b := &BuilderSchema{
		Record:      rec,
		TypeName:    naming.BuilderName(rec.TypeName),
		Constructor: naming.ConstructorName(rec.TypeName),
		Slots:       make([]Slot, 0, len(rec.Fields)),
	}
	for _, f := range rec.Fields {
		storage := f.Type.Expr
		if !f.IsOptional {
			storage = schema.WrapOptional(f.Type.Expr)
		}
		b.Slots = append(b.Slots, Slot{
			FieldName:    f.Name,
			SlotName:     schema.SlotName(f.Name),
			DeclaredType: f.Type.Expr,
			StorageType:  storage,
			Optional:     f.IsOptional,
		})
	}
	return b
}

// HasRequired reports whether any slot holds a required field.
func (b *BuilderSchema) HasRequired() bool {
	for _, s := range b.Slots {
		if !s.Optional {
			return true
		}
	}
	return false
}

// ResultType is the type Build returns.
func (b *BuilderSchema) ResultType() string {
	if b.Record.Pointer {
		return "*" + b.Record.TypeName
	}
	return b.Record.TypeName
}

// ZeroValue is what Build returns alongside an error.
func (b *BuilderSchema) ZeroValue() string {
	if b.Record.Pointer {
		return "nil"
	}
	return b.Record.TypeName + "{}"
}

// Names returns the package-level identifiers the builder declares.
func (b *BuilderSchema) Names() []string {
	return []string{b.TypeName, b.Constructor}
}

func isExported(name string) bool {
	first, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(first)
}

func lowerFirst(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return strings.ToLower(string(first)) + s[size:]
}
