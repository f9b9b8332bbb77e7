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

package protoplugin

import (
	"flag"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/panyam/builder-gen/pkg/generator/testutil"
	"github.com/panyam/builder-gen/pkg/schema"
)

func libraryProtoSet() *testutil.TestProtoSet {
	return &testutil.TestProtoSet{
		Files: []testutil.TestFile{
			{
				Name: "library/v1/book.proto",
				Pkg:  "library.v1",
				Messages: []testutil.TestMessage{
					{
						Name:    "Book",
						Comment: "builder:generate",
						Fields: []testutil.TestField{
							{Name: "title", Number: 1, TypeName: "string"},
							{Name: "subtitle", Number: 2, TypeName: "string", Optional: true},
						},
					},
					{Name: "Shelf", Fields: []testutil.TestField{{Name: "name", Number: 1, TypeName: "string"}}},
				},
			},
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultParams(t *testing.T, args ...string) Params {
	t.Helper()
	var params Params
	var fs flag.FlagSet
	params.Register(&fs)
	for _, arg := range args {
		name, value, _ := strings.Cut(arg, "=")
		require.NoError(t, fs.Set(name, value))
	}
	return params
}

func responseFiles(t *testing.T, resp *pluginpb.CodeGeneratorResponse) map[string]string {
	t.Helper()
	require.Empty(t, resp.GetError())
	files := make(map[string]string)
	for _, f := range resp.GetFile() {
		files[f.GetName()] = f.GetContent()
	}
	return files
}

func TestGenerate_MarkedMessages(t *testing.T) {
	plugin := testutil.CreateTestPlugin(t, libraryProtoSet())

	require.NoError(t, Generate(plugin, defaultParams(t), quietLogger()))

	resp := plugin.Response()
	assert.Equal(t, uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL), resp.GetSupportedFeatures())
	files := responseFiles(t, resp)
	require.Len(t, files, 1)

	content, ok := files[testutil.GoPackageFor("library.v1")+"/book_builder.pb.go"]
	require.True(t, ok, "missing builder file, got %v", files)
	assert.Contains(t, content, "// Code generated by builder-gen. DO NOT EDIT.")
	assert.Contains(t, content, "func NewBookBuilder() *BookBuilder")
	assert.Contains(t, content, "func (b *BookBuilder) Build() (*Book, error)")
	assert.NotContains(t, content, "ShelfBuilder")
}

func TestGenerate_AllWithParams(t *testing.T) {
	plugin := testutil.CreateTestPlugin(t, libraryProtoSet())
	params := defaultParams(t, "all=true", "message_exclude=Book", "builder_suffix=Maker", "output_suffix=_make.pb.go")

	require.NoError(t, Generate(plugin, params, quietLogger()))

	files := responseFiles(t, plugin.Response())
	content, ok := files[testutil.GoPackageFor("library.v1")+"/book_make.pb.go"]
	require.True(t, ok, "missing builder file, got %v", files)
	assert.Contains(t, content, "func NewShelfMaker() *ShelfMaker")
	assert.NotContains(t, content, "BookMaker")
}

func TestGenerate_Errors(t *testing.T) {
	plugin := testutil.CreateTestPlugin(t, libraryProtoSet())
	err := Generate(plugin, defaultParams(t, "message_include=[x"), quietLogger())
	assert.ErrorContains(t, err, "invalid filter configuration")

	empty := &testutil.TestProtoSet{Files: []testutil.TestFile{{
		Name:     "x/x.proto",
		Pkg:      "x",
		Messages: []testutil.TestMessage{{Name: "Empty", Comment: "builder:generate"}},
	}}}
	plugin = testutil.CreateTestPlugin(t, empty)
	err = Generate(plugin, defaultParams(t), quietLogger())
	assert.ErrorIs(t, err, schema.ErrUnsupportedShape)
}
