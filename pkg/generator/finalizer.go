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

// DrainStep moves one slot into the result.
type DrainStep struct {
	FieldName string
	SlotName  string
	Optional  bool
}

// FinalizerData renders Build.
type FinalizerData struct {
	Record      string
	Builder     string
	Receiver    string
	Result      string
	Err         string
	ResultType  string
	ZeroValue   string
	Pointer     bool
	HasRequired bool
	Steps       []DrainStep
}

// Finalizer builds the Build method for b. Steps follow field order: an
// optional slot is taken as is, a required one must be present or Build
// stops there with a missing field error. Every slot read is left empty.
func Finalizer(b *BuilderSchema, reserved map[string]bool) FinalizerData {
	steps := make([]DrainStep, 0, len(b.Slots))
	for _, s := range b.Slots {
		steps = append(steps, DrainStep{
			FieldName: s.FieldName,
			SlotName:  s.SlotName,
			Optional:  s.Optional,
		})
	}
	return FinalizerData{
		Record:      b.Record.TypeName,
		Builder:     b.TypeName,
		Receiver:    freeName(reserved, "b", "bld", "builder"),
		Result:      freeName(reserved, "r", "res", "result"),
		Err:         freeName(reserved, "err", "buildErr"),
		ResultType:  b.ResultType(),
		ZeroValue:   b.ZeroValue(),
		Pointer:     b.Record.Pointer,
		HasRequired: b.HasRequired(),
		Steps:       steps,
	}
}
