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

package types

import "sort"

// GeneratedFile represents a generated code file with its path and content.
type GeneratedFile struct {
	// Path is the output file path (e.g., "people_builder.go", "shop/v1/order_builder.pb.go")
	Path string `json:"path"`

	// Content is the generated Go code
	Content string `json:"content"`

	// Source is the input the file was generated from
	Source string `json:"source"`

	// Records lists the record types builders were generated for, in order
	Records []string `json:"records"`
}

// GenerateResult contains all generated files.
type GenerateResult struct {
	// Files is the list of generated files
	Files []*GeneratedFile `json:"files"`
}

// Add appends a file to the result.
func (r *GenerateResult) Add(file *GeneratedFile) {
	r.Files = append(r.Files, file)
}

// Paths returns the output paths of all files, sorted.
func (r *GenerateResult) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		paths = append(paths, f.Path)
	}
	sort.Strings(paths)
	return paths
}

// File returns the generated file with the given path, or nil.
func (r *GenerateResult) File(path string) *GeneratedFile {
	for _, f := range r.Files {
		if f.Path == path {
			return f
		}
	}
	return nil
}

// RecordCount is the number of builders across all files.
func (r *GenerateResult) RecordCount() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Records)
	}
	return n
}
