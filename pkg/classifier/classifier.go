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

// Package classifier decides which record fields are declared optional.
//
// The rule is purely structural: a field is optional when its declared type
// is a single unqualified reference to the wrapper type name, with or
// without type arguments. Nothing is resolved, so a qualified reference such
// as buildkit.Option[int], or a local alias under another name, is required.
// Extractors that know better set an explicit Presence, which wins.
package classifier

import (
	"go/ast"
	"go/parser"

	"github.com/panyam/builder-gen/pkg/schema"
)

// DefaultWrapperName is the type name that marks a field optional.
const DefaultWrapperName = "Option"

// Classifier classifies fields against a wrapper type name.
type Classifier struct {
	WrapperName string
}

// New returns a classifier for wrapperName, or DefaultWrapperName if empty.
func New(wrapperName string) *Classifier {
	if wrapperName == "" {
		wrapperName = DefaultWrapperName
	}
	return &Classifier{WrapperName: wrapperName}
}

func (c *Classifier) wrapper() string {
	if c == nil || c.WrapperName == "" {
		return DefaultWrapperName
	}
	return c.WrapperName
}

// IsOptionalExpr reports whether expr is the bare wrapper name, optionally
// instantiated: Option, Option[T] or Option[K, V].
func (c *Classifier) IsOptionalExpr(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name == c.wrapper()
	case *ast.IndexExpr:
		ident, ok := e.X.(*ast.Ident)
		return ok && ident.Name == c.wrapper()
	case *ast.IndexListExpr:
		ident, ok := e.X.(*ast.Ident)
		return ok && ident.Name == c.wrapper()
	}
	return false
}

// IsOptional is IsOptionalExpr for a type expression in source form. An
// expression that does not parse is treated as required.
func (c *Classifier) IsOptional(typeExpr string) bool {
	expr, err := parser.ParseExpr(typeExpr)
	if err != nil {
		return false
	}
	return c.IsOptionalExpr(expr)
}

// Classify returns a copy of rec with IsOptional set on every field. An
// explicit Presence overrides the structural rule.
func (c *Classifier) Classify(rec *schema.RecordSchema) *schema.RecordSchema {
	out := rec.Clone()
	for i := range out.Fields {
		f := &out.Fields[i]
		switch f.Presence {
		case schema.PresenceOptional:
			f.IsOptional = true
		case schema.PresenceRequired:
			f.IsOptional = false
		default:
			f.IsOptional = c.IsOptional(f.Type.Expr)
		}
	}
	return out
}

// IsOptional classifies typeExpr with the default wrapper name.
func IsOptional(typeExpr string) bool {
	return New("").IsOptional(typeExpr)
}

// Classify classifies rec with the default wrapper name.
func Classify(rec *schema.RecordSchema) *schema.RecordSchema {
	return New("").Classify(rec)
}
