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
	"bytes"
	"embed"
	"text/template"

	"github.com/panyam/builder-gen/pkg/generator/common"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// FileData contains all data needed to render a complete Go file.
type FileData struct {
	Source      string
	PackageName string
	Imports     []common.ImportSpec
	Records     []RecordData // one builder per record, in input order
}

// RecordData contains everything generated for one record.
type RecordData struct {
	Declaration *DeclarationData // nil unless the record is declared here
	Builder     BuilderData
	Constructor ConstructorData
	Setters     []SetterData
	Finalizer   FinalizerData
}

// DeclarationData renders a record struct for records with no host type.
type DeclarationData struct {
	Name   string
	Fields []DeclaredField
}

// DeclaredField is one field of a declared record.
type DeclaredField struct {
	Name string
	Type string
}

// BuilderData renders the builder struct.
type BuilderData struct {
	Name   string
	Record string
	Slots  []Slot
}

var tmpl *template.Template

// loadTemplates loads and parses all templates.
// This is called once during initialization.
func loadTemplates() (*template.Template, error) {
	if tmpl != nil {
		return tmpl, nil
	}

	t, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}

	tmpl = t
	return tmpl, nil
}

// renderTemplate executes a template with the given data.
func renderTemplate(name string, data interface{}) ([]byte, error) {
	t, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
