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
	"testing"
)

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		name       string
		sourcePath string
		suffix     string
		expected   string
	}{
		{
			name:       "Go file with path",
			sourcePath: "models/user.go",
			suffix:     "_builder.go",
			expected:   "models/user_builder.go",
		},
		{
			name:       "Proto file with nested path",
			sourcePath: "library/v1/book.proto",
			suffix:     "_builder.pb.go",
			expected:   "library/v1/book_builder.pb.go",
		},
		{
			name:       "Protogen prefix without extension",
			sourcePath: "github.com/test/gen/go/library/v1/book",
			suffix:     "_builder.pb.go",
			expected:   "github.com/test/gen/go/library/v1/book_builder.pb.go",
		},
		{
			name:       "YAML schema file",
			sourcePath: "schemas/order.yaml",
			suffix:     "_builder.go",
			expected:   "schemas/order_builder.go",
		},
		{
			name:       "HCL schema file",
			sourcePath: "order.hcl",
			suffix:     "_builder.go",
			expected:   "order_builder.go",
		},
		{
			name:       "File without directory",
			sourcePath: "person.go",
			suffix:     "_gen.go",
			expected:   "person_gen.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := OutputFilename(tt.sourcePath, tt.suffix)
			if result != tt.expected {
				t.Errorf("OutputFilename(%q, %q) = %q; want %q",
					tt.sourcePath, tt.suffix, result, tt.expected)
			}
		})
	}
}

func TestIsGeneratedOutput(t *testing.T) {
	tests := []struct {
		path   string
		suffix string
		want   bool
	}{
		{"person_builder.go", "", true},
		{"person.go", "", false},
		{"person_gen.go", "_gen.go", true},
		{"person_builder.go", "_gen.go", false},
	}

	for _, tt := range tests {
		if got := IsGeneratedOutput(tt.path, tt.suffix); got != tt.want {
			t.Errorf("IsGeneratedOutput(%q, %q) = %v; want %v", tt.path, tt.suffix, got, tt.want)
		}
	}
}
