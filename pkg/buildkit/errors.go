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

package buildkit

import (
	"errors"
	"fmt"
)

// ErrMissingField matches every *MissingFieldError under errors.Is.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError is returned by a generated Build method when a required
// field was never set. Only the first such field in declaration order is
// reported.
type MissingFieldError struct {
	// Record is the name of the type being built (e.g. "Person")
	Record string

	// Field is the name of the unset field (e.g. "Email")
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Record, e.Field)
}

// Is makes errors.Is(err, ErrMissingField) hold.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// MissingField returns a *MissingFieldError for record and field.
func MissingField(record, field string) error {
	return &MissingFieldError{Record: record, Field: field}
}
