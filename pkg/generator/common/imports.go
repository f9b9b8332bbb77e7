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

package common

import (
	"sort"
	"strconv"
	"strings"
)

// RuntimeImportPath is the import path of the runtime package generated
// builders depend on.
const RuntimeImportPath = "github.com/panyam/builder-gen/pkg/buildkit"

// RuntimeAlias is the name generated code uses for RuntimeImportPath.
const RuntimeAlias = "buildkit"

// RuntimeImport is the import spec for the builder runtime.
var RuntimeImport = ImportSpec{Alias: RuntimeAlias, Path: RuntimeImportPath}

// ImportSpec represents a Go import with optional alias.
//
// Import specs are used when generating import statements in Go files.
// The alias is optional and used when the package name conflicts with
// local identifiers or when a shorter name is desired.
//
// Examples:
//   - ImportSpec{Path: "fmt"} -> import "fmt"
//   - ImportSpec{Alias: "pb", Path: "google.golang.org/protobuf"} -> import pb "google.golang.org/protobuf"
type ImportSpec struct {
	// Alias is the optional import alias (e.g., "models", "pb", "api")
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`

	// Path is the full import path (e.g., "github.com/example/models")
	Path string `json:"path" yaml:"path"`
}

// Name returns the identifier the import is referenced by in source: the
// alias when present, otherwise the package name guessed from the path.
func (s ImportSpec) Name() string {
	if s.Alias != "" {
		return s.Alias
	}
	return GuessPackageName(s.Path)
}

// ImportMap is a helper type for collecting unique imports.
//
// Use a map with the import path as key to automatically deduplicate imports.
// Convert to []ImportSpec when ready to render in templates.
type ImportMap map[string]ImportSpec

// Add adds an import to the map.
//
// If an import with the same path already exists, it keeps the existing one.
// This prevents duplicate imports.
//
// Parameters:
//   - spec: The import specification to add
func (m ImportMap) Add(spec ImportSpec) {
	if _, exists := m[spec.Path]; !exists {
		m[spec.Path] = spec
	}
}

// AliasFor returns the name under which path is imported, registering the
// import first if needed. A fresh import whose preferred name is already
// taken by another path gets a numeric suffix ("api", "api2", ...).
//
// Parameters:
//   - path: The full import path
//   - preferred: The alias to try first; empty means the guessed package name
//
// Returns:
//   - the identifier to qualify names from path with
func (m ImportMap) AliasFor(path, preferred string) string {
	if spec, exists := m[path]; exists {
		return spec.Name()
	}

	base := preferred
	if base == "" {
		base = GuessPackageName(path)
	}
	alias := base
	for i := 2; m.nameTaken(alias); i++ {
		alias = base + strconv.Itoa(i)
	}
	m[path] = ImportSpec{Alias: alias, Path: path}
	return alias
}

func (m ImportMap) nameTaken(name string) bool {
	for _, spec := range m {
		if spec.Name() == name {
			return true
		}
	}
	return false
}

// ToSlice converts the import map to a slice of import specs.
//
// This is useful for template rendering which typically expects slices.
//
// Returns:
//   - slice of import specs
func (m ImportMap) ToSlice() []ImportSpec {
	var result []ImportSpec
	for _, spec := range m {
		result = append(result, spec)
	}
	return result
}

// Sorted returns the imports ordered by path so that rendering is stable.
func (m ImportMap) Sorted() []ImportSpec {
	result := m.ToSlice()
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// GuessPackageName derives the likely package name from an import path the
// same way goimports does when it cannot load the package.
//
// Examples:
//   - GuessPackageName("time") -> "time"
//   - GuessPackageName("gopkg.in/yaml.v3") -> "yaml"
//   - GuessPackageName("github.com/hashicorp/hcl/v2") -> "hcl"
//   - GuessPackageName("github.com/goccy/go-json") -> "json"
//   - GuessPackageName("github.com/test/gen/go/api;apipb") -> "apipb"
func GuessPackageName(importPath string) string {
	if idx := strings.LastIndex(importPath, ";"); idx != -1 {
		return importPath[idx+1:]
	}

	name := GetPackageAlias(importPath)
	if isMajorVersion(name) {
		trimmed := strings.TrimSuffix(importPath, "/"+name)
		if trimmed != importPath {
			name = GetPackageAlias(trimmed)
		}
	}
	if idx := strings.Index(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.TrimPrefix(name, "go-")
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, name)
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}
