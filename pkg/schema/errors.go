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
	"fmt"
	"go/token"
)

// ErrUnsupportedShape is wrapped by every StructuralError.
var ErrUnsupportedShape = errors.New("unsupported record shape")

// StructuralError reports an input type the generator cannot build a
// builder for. It is fatal for the file the record lives in.
type StructuralError struct {
	Record string
	Pos    token.Position
	Reason string
}

func (e *StructuralError) Error() string {
	msg := e.Reason
	if e.Record != "" {
		msg = fmt.Sprintf("record %s: %s", e.Record, e.Reason)
	}
	if e.Pos.IsValid() || e.Pos.Filename != "" {
		return e.Pos.String() + ": " + msg
	}
	return msg
}

func (e *StructuralError) Unwrap() error { return ErrUnsupportedShape }

// Structural builds a StructuralError with a formatted reason.
func Structural(pos token.Position, record, format string, args ...any) error {
	return &StructuralError{Record: record, Pos: pos, Reason: fmt.Sprintf(format, args...)}
}
