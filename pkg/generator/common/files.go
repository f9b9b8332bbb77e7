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
	"path/filepath"
	"strings"
)

// DefaultOutputSuffix is appended to a Go source file's base name to name
// the file its builders are written to.
const DefaultOutputSuffix = "_builder.go"

// DefaultProtoOutputSuffix plays the same role for protoc output, keeping the
// ".pb.go" ending protoc-gen-go users expect next to generated messages.
const DefaultProtoOutputSuffix = "_builder.pb.go"

// OutputFilename creates an output filename from a source path.
//
// This preserves the directory structure of the source path so builders land
// next to the type they were generated for. A trailing ".go", ".proto",
// ".yaml", ".yml", ".json" or ".hcl" extension is replaced with the suffix;
// any other path is used as a prefix verbatim (protogen's
// GeneratedFilenamePrefix has no extension).
//
// Examples:
//   - OutputFilename("models/user.go", "_builder.go") -> "models/user_builder.go"
//   - OutputFilename("library/v1/book.proto", "_builder.pb.go") -> "library/v1/book_builder.pb.go"
//   - OutputFilename("library/v1/book", "_builder.pb.go") -> "library/v1/book_builder.pb.go"
//   - OutputFilename("schemas/order.yaml", "_builder.go") -> "schemas/order_builder.go"
//
// Parameters:
//   - sourcePath: Path to the input file (or an extension-less prefix)
//   - suffix: Suffix to add to the base name (e.g., "_builder.go")
//
// Returns:
//   - output filename with directory structure preserved and specified suffix
func OutputFilename(sourcePath, suffix string) string {
	result := sourcePath
	switch filepath.Ext(result) {
	case ".go", ".proto", ".yaml", ".yml", ".json", ".hcl":
		result = strings.TrimSuffix(result, filepath.Ext(result))
	}
	return result + suffix
}

// IsGeneratedOutput reports whether path looks like a file this generator
// wrote, so extractors and watchers can skip their own output.
func IsGeneratedOutput(path, suffix string) bool {
	if suffix == "" {
		suffix = DefaultOutputSuffix
	}
	return strings.HasSuffix(path, suffix)
}
