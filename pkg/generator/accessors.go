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
	"strconv"

	"github.com/panyam/builder-gen/pkg/generator/common"
)

// ConstructorData renders the zero-argument constructor.
type ConstructorData struct {
	Name    string
	Builder string
}

// SetterData renders one fluent setter.
type SetterData struct {
	Method    string // same as the field name
	Builder   string
	Receiver  string
	Param     string
	ParamType string // the declared field type
	SlotName  string
	// Value is what gets stored: buildkit.Some(v) for required fields, v
	// itself for optional ones so they are never wrapped twice.
	Value string
}

// Constructor builds the constructor for b. The builder's zero value has
// every slot absent, so the constructor just allocates one.
func Constructor(b *BuilderSchema) ConstructorData {
	return ConstructorData{Name: b.Constructor, Builder: b.TypeName}
}

// Setters builds one setter per slot, in field order. Receiver and parameter
// names avoid the package names in reserved so they cannot shadow an import
// used by a parameter type.
func Setters(b *BuilderSchema, reserved map[string]bool) []SetterData {
	recv := freeName(reserved, "b", "bld", "builder")
	param := freeName(reserved, "v", "val", "value")

	setters := make([]SetterData, 0, len(b.Slots))
	for _, s := range b.Slots {
		value := param
		if !s.Optional {
			value = common.RuntimeAlias + ".Some(" + param + ")"
		}
		setters = append(setters, SetterData{
			Method:    s.FieldName,
			Builder:   b.TypeName,
			Receiver:  recv,
			Param:     param,
			ParamType: s.DeclaredType,
			SlotName:  s.SlotName,
			Value:     value,
		})
	}
	return setters
}

// freeName returns the first candidate not in reserved, extending the last
// one with a number if all are taken.
func freeName(reserved map[string]bool, candidates ...string) string {
	for _, c := range candidates {
		if !reserved[c] {
			return c
		}
	}
	last := candidates[len(candidates)-1]
	name := last
	for i := 2; reserved[name]; i++ {
		name = last + strconv.Itoa(i)
	}
	return name
}
