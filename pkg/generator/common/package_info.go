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
	"strings"

	"google.golang.org/protobuf/compiler/protogen"
)

// PackageInfo contains extracted information about the Go package a
// generated proto identifier lives in.
type PackageInfo struct {
	// ImportPath is the clean import path without ;packagename suffix
	// Example: "github.com/test/gen/go/api"
	ImportPath string

	// Alias is the package alias for import statements
	// Example: "api" (from ".../go/api"), "libraryv1" (from ".../library/v1")
	Alias string
}

// ExtractPackageInfo extracts clean import path and package alias for a Go
// identifier produced by protoc-gen-go (a message or enum type).
//
// The function handles:
//   - Stripping ;packagename suffix from GoImportPath (the suffix wins as alias)
//   - Extracting the last path component as the alias
//   - Folding a trailing major version into the alias ("library/v1" -> "libraryv1")
//
// Example:
//
//	Input: ident with GoImportPath = "github.com/test/gen/go/api;apipb"
//	Output: PackageInfo{ImportPath: "github.com/test/gen/go/api", Alias: "apipb"}
func ExtractPackageInfo(ident protogen.GoIdent) PackageInfo {
	raw := string(ident.GoImportPath)
	if raw == "" {
		return PackageInfo{}
	}

	importPath := CleanImportPath(raw)
	alias := GetPackageAlias(importPath)
	if idx := strings.LastIndex(raw, ";"); idx != -1 {
		alias = raw[idx+1:]
	} else if isMajorVersion(alias) {
		parent := GetPackageAlias(strings.TrimSuffix(importPath, "/"+alias))
		if parent != importPath {
			alias = parent + alias
		}
	}

	return PackageInfo{
		ImportPath: importPath,
		Alias:      alias,
	}
}
