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
)

// CleanImportPath strips a ";packagename" override from an import path.
//
// buf-managed and hand-written go_package options may carry an explicit
// package name after a semicolon, which is not valid in an import statement.
//
// Examples:
//   - "github.com/example/api;apipb" -> "github.com/example/api"
//   - "github.com/example/api/v1" -> "github.com/example/api/v1"
func CleanImportPath(importPath string) string {
	if idx := strings.LastIndex(importPath, ";"); idx != -1 {
		return importPath[:idx]
	}
	return importPath
}

// GetPackageAlias returns the default alias for a package path.
//
// This is used when creating import statements with aliases. The alias is
// typically the last segment of the package path.
//
// Examples:
//   - GetPackageAlias("github.com/myapp/converters") -> "converters"
//   - GetPackageAlias("example.com/api/v1") -> "v1"
//   - GetPackageAlias("mypackage") -> "mypackage"
//
// Parameters:
//   - pkgPath: The full package import path
//
// Returns:
//   - the default alias (last segment of path)
func GetPackageAlias(pkgPath string) string {
	if idx := strings.LastIndex(pkgPath, "/"); idx != -1 {
		return pkgPath[idx+1:]
	}
	return pkgPath
}
