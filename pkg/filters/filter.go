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

// Package filters narrows down which records get builders.
package filters

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FilterCriteria holds record filtering criteria
type FilterCriteria struct {
	// RecordsSet is the set of records to include (empty = all)
	RecordsSet map[string]bool

	// IncludePatterns are glob patterns for records to include
	IncludePatterns []string

	// ExcludePatterns are glob patterns for records to exclude
	ExcludePatterns []string
}

// ParseFromConfig creates FilterCriteria from comma-separated strings, the
// form protoc plugin parameters arrive in.
func ParseFromConfig(records, include, exclude string) (*FilterCriteria, error) {
	return FromLists(splitList(records), splitList(include), splitList(exclude))
}

// FromLists creates FilterCriteria from already split lists, as found in the
// config file and on the command line.
func FromLists(records, include, exclude []string) (*FilterCriteria, error) {
	criteria := &FilterCriteria{
		RecordsSet: make(map[string]bool),
	}

	for _, name := range records {
		if name = strings.TrimSpace(name); name != "" {
			criteria.RecordsSet[name] = true
		}
	}

	var err error
	if criteria.IncludePatterns, err = patterns(include); err != nil {
		return nil, err
	}
	if criteria.ExcludePatterns, err = patterns(exclude); err != nil {
		return nil, err
	}
	return criteria, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func patterns(list []string) ([]string, error) {
	var result []string
	for _, pattern := range list {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		result = append(result, pattern)
	}
	return result, nil
}

// IsEmpty reports whether the criteria let every record through.
func (f *FilterCriteria) IsEmpty() bool {
	return f == nil || (len(f.RecordsSet) == 0 && len(f.IncludePatterns) == 0 && len(f.ExcludePatterns) == 0)
}

// ShouldInclude returns true if the record should be included based on filter criteria.
// A nil FilterCriteria includes everything.
func (f *FilterCriteria) ShouldInclude(recordName string) bool {
	if f == nil {
		return true
	}

	// If specific records are listed, check if this record is in the set
	if len(f.RecordsSet) > 0 {
		if !f.RecordsSet[recordName] {
			return false
		}
	}

	// Check exclude patterns first
	for _, pattern := range f.ExcludePatterns {
		if matched, _ := filepath.Match(pattern, recordName); matched {
			return false
		}
	}

	// Check include patterns
	if len(f.IncludePatterns) > 0 {
		for _, pattern := range f.IncludePatterns {
			if matched, _ := filepath.Match(pattern, recordName); matched {
				return true
			}
		}
		return false
	}

	return true
}
