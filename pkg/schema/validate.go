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

package schema

import (
	"errors"
	"go/parser"
	"go/token"
)

// ReservedSetterNames are method names the generated builder already
// defines. A field with one of these names would clash with them.
var ReservedSetterNames = map[string]bool{
	"Build": true,
}

// Validate checks that a builder can be generated for the record.
func (r *RecordSchema) Validate() error {
	if !token.IsIdentifier(r.TypeName) || r.TypeName == "_" {
		return Structural(r.Pos, r.TypeName, "invalid record name %q", r.TypeName)
	}
	if len(r.Fields) == 0 {
		return Structural(r.Pos, r.TypeName, "record has no fields")
	}

	names := make(map[string]bool, len(r.Fields))
	slots := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		pos := f.Pos
		if !pos.IsValid() {
			pos = r.Pos
		}
		switch {
		case f.Name == "_" || !token.IsIdentifier(f.Name):
			return Structural(pos, r.TypeName, "invalid field name %q", f.Name)
		case ReservedSetterNames[f.Name]:
			return Structural(pos, r.TypeName, "field %s clashes with the builder's %s method", f.Name, f.Name)
		case names[f.Name]:
			return Structural(pos, r.TypeName, "duplicate field %s", f.Name)
		}
		names[f.Name] = true

		slot := SlotName(f.Name)
		if other, ok := slots[slot]; ok {
			return Structural(pos, r.TypeName, "fields %s and %s map to the same builder slot %s", other, f.Name, slot)
		}
		slots[slot] = f.Name

		if f.Type.Expr == "" {
			return Structural(pos, r.TypeName, "field %s has no type", f.Name)
		}
		if _, err := parser.ParseExpr(f.Type.Expr); err != nil {
			return Structural(pos, r.TypeName, "field %s: invalid type %q", f.Name, f.Type.Expr)
		}
		if f.Presence < PresenceInferred || f.Presence > PresenceRequired {
			return Structural(pos, r.TypeName, "field %s: invalid presence %d", f.Name, int(f.Presence))
		}
	}

	// A setter and a slot share the builder's method/field namespace.
	for _, f := range r.Fields {
		if owner, ok := slots[f.Name]; ok {
			return Structural(r.Pos, r.TypeName, "field %s clashes with the builder slot of field %s", f.Name, owner)
		}
	}
	return nil
}

// Validate checks the file and every record in it.
func (fs *FileSchema) Validate() error {
	if !token.IsIdentifier(fs.PackageName) || fs.PackageName == "_" {
		return Structural(token.Position{Filename: fs.Source}, "", "invalid package name %q", fs.PackageName)
	}
	if fs.OutputPath == "" {
		return Structural(token.Position{Filename: fs.Source}, "", "no output path")
	}

	var errs []error
	seen := make(map[string]bool, len(fs.Records))
	for _, rec := range fs.Records {
		if seen[rec.TypeName] {
			errs = append(errs, Structural(rec.Pos, rec.TypeName, "record declared twice"))
			continue
		}
		seen[rec.TypeName] = true
		if err := rec.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
