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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateResult(t *testing.T) {
	var r GenerateResult
	r.Add(&GeneratedFile{Path: "b/people_builder.go", Records: []string{"Person", "Prefs"}})
	r.Add(&GeneratedFile{Path: "a/order_builder.go", Records: []string{"Order"}})

	assert.Equal(t, []string{"a/order_builder.go", "b/people_builder.go"}, r.Paths())
	assert.Equal(t, 3, r.RecordCount())
	assert.Equal(t, []string{"Order"}, r.File("a/order_builder.go").Records)
	assert.Nil(t, r.File("missing.go"))
}
