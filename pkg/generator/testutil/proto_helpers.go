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

package testutil

import (
	"strings"
	"testing"

	"google.golang.org/protobuf/compiler/protogen"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// TestProtoSet represents a collection of proto files for testing.
type TestProtoSet struct {
	Files []TestFile
}

// TestFile represents a single proto file with messages.
type TestFile struct {
	Name     string
	Pkg      string
	Syntax   string   // "proto3" when empty
	Deps     []string // names of imported proto files, listed earlier in the set
	Messages []TestMessage
	Enums    []TestEnum
}

// TestMessage represents a proto message, optionally with a leading comment
// (e.g. "builder:generate") and nested messages.
type TestMessage struct {
	Name    string
	Comment string
	Fields  []TestField
	Nested  []TestMessage
}

// TestEnum represents a top-level proto enum.
type TestEnum struct {
	Name   string
	Values []string
}

// TestField represents a proto field.
type TestField struct {
	Name       string
	Number     int32
	TypeName   string // scalar kind ("string", "int32", ...) or fully qualified message/enum name
	IsEnum     bool   // TypeName names an enum rather than a message
	Repeated   bool
	Optional   bool   // proto3 "optional" keyword (or proto2 optional label)
	Required   bool   // proto2 "required" label
	Oneof      string // name of a (non-synthetic) oneof the field belongs to
	IsMap      bool
	MapKeyType string // For map fields: "int32", "string", etc.
}

// GoPackageFor returns the go_package option BuildFileDescriptor assigns to
// a proto package.
func GoPackageFor(pkg string) string {
	return "github.com/test/gen/go/" + strings.ReplaceAll(pkg, ".", "/")
}

// CreateTestPlugin creates a protogen.Plugin from a test proto set.
func CreateTestPlugin(t *testing.T, protoSet *TestProtoSet) *protogen.Plugin {
	t.Helper()

	req := BuildCodeGeneratorRequest(t, protoSet)
	opts := protogen.Options{}
	plugin, err := opts.New(req)
	if err != nil {
		t.Fatalf("Failed to create plugin: %v", err)
	}

	return plugin
}

// BuildCodeGeneratorRequest creates a CodeGeneratorRequest from a test proto set.
func BuildCodeGeneratorRequest(t *testing.T, protoSet *TestProtoSet) *pluginpb.CodeGeneratorRequest {
	t.Helper()

	req := &pluginpb.CodeGeneratorRequest{
		FileToGenerate: []string{},
		ProtoFile:      []*descriptorpb.FileDescriptorProto{},
	}

	for _, file := range protoSet.Files {
		fileDesc := BuildFileDescriptor(t, file)
		req.ProtoFile = append(req.ProtoFile, fileDesc)
		req.FileToGenerate = append(req.FileToGenerate, file.Name)
	}

	return req
}

// BuildFileDescriptor creates a FileDescriptorProto from a test file.
func BuildFileDescriptor(t *testing.T, file TestFile) *descriptorpb.FileDescriptorProto {
	t.Helper()

	syntax := file.Syntax
	if syntax == "" {
		syntax = "proto3"
	}

	fileDesc := &descriptorpb.FileDescriptorProto{
		Name:       proto.String(file.Name),
		Package:    proto.String(file.Pkg),
		Syntax:     proto.String(syntax),
		Dependency: file.Deps,
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String(GoPackageFor(file.Pkg)),
		},
		SourceCodeInfo: &descriptorpb.SourceCodeInfo{},
	}

	for _, enum := range file.Enums {
		enumDesc := &descriptorpb.EnumDescriptorProto{Name: proto.String(enum.Name)}
		for i, value := range enum.Values {
			enumDesc.Value = append(enumDesc.Value, &descriptorpb.EnumValueDescriptorProto{
				Name:   proto.String(value),
				Number: proto.Int32(int32(i)),
			})
		}
		fileDesc.EnumType = append(fileDesc.EnumType, enumDesc)
	}

	for i, msg := range file.Messages {
		// 4 is the field number of message_type in FileDescriptorProto
		path := []int32{4, int32(i)}
		msgDesc := buildMessage(t, msg, "."+file.Pkg+"."+msg.Name, syntax == "proto2", path, fileDesc.SourceCodeInfo)
		fileDesc.MessageType = append(fileDesc.MessageType, msgDesc)
	}

	return fileDesc
}

// BuildMessageDescriptor creates a DescriptorProto from a test message (no package context).
func BuildMessageDescriptor(t *testing.T, msg TestMessage) *descriptorpb.DescriptorProto {
	t.Helper()
	return buildMessage(t, msg, "."+msg.Name, false, nil, nil)
}

func buildMessage(t *testing.T, msg TestMessage, fullName string, proto2 bool, path []int32, info *descriptorpb.SourceCodeInfo) *descriptorpb.DescriptorProto {
	t.Helper()

	msgDesc := &descriptorpb.DescriptorProto{
		Name: proto.String(msg.Name),
	}

	if msg.Comment != "" && info != nil {
		info.Location = append(info.Location, &descriptorpb.SourceCodeInfo_Location{
			Path:            append([]int32(nil), path...),
			Span:            []int32{0, 0, 0},
			LeadingComments: proto.String(" " + msg.Comment + "\n"),
		})
	}

	// Real oneofs must be declared before the synthetic ones backing proto3 optional fields
	oneofIndex := make(map[string]int32)
	for _, field := range msg.Fields {
		if field.Oneof == "" {
			continue
		}
		if _, exists := oneofIndex[field.Oneof]; !exists {
			oneofIndex[field.Oneof] = int32(len(msgDesc.OneofDecl))
			msgDesc.OneofDecl = append(msgDesc.OneofDecl, &descriptorpb.OneofDescriptorProto{Name: proto.String(field.Oneof)})
		}
	}

	for _, field := range msg.Fields {
		if field.IsMap {
			// Map fields require a nested entry message
			// Capitalize first letter of field name
			fieldName := field.Name
			if len(fieldName) > 0 {
				fieldName = strings.ToUpper(fieldName[:1]) + fieldName[1:]
			}
			entryMsgName := fieldName + "Entry"
			valueField := &descriptorpb.FieldDescriptorProto{
				Name:   proto.String("value"),
				Number: proto.Int32(2),
				Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			}
			setFieldType(valueField, field.TypeName, field.IsEnum)
			entryMsg := &descriptorpb.DescriptorProto{
				Name: proto.String(entryMsgName),
				Options: &descriptorpb.MessageOptions{
					MapEntry: proto.Bool(true),
				},
				Field: []*descriptorpb.FieldDescriptorProto{
					{
						Name:   proto.String("key"),
						Number: proto.Int32(1),
						Type:   GetFieldType(field.MapKeyType),
						Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
					},
					valueField,
				},
			}
			msgDesc.NestedType = append(msgDesc.NestedType, entryMsg)

			// Add the map field itself
			fieldDesc := &descriptorpb.FieldDescriptorProto{
				Name:     proto.String(field.Name),
				Number:   proto.Int32(field.Number),
				Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
				TypeName: proto.String(fullName + "." + entryMsgName),
				Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
			}
			msgDesc.Field = append(msgDesc.Field, fieldDesc)
			continue
		}

		fieldDesc := &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(field.Name),
			Number: proto.Int32(field.Number),
			Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		}
		setFieldType(fieldDesc, field.TypeName, field.IsEnum)

		switch {
		case field.Repeated:
			fieldDesc.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
		case field.Required:
			fieldDesc.Label = descriptorpb.FieldDescriptorProto_LABEL_REQUIRED.Enum()
		case field.Oneof != "":
			fieldDesc.OneofIndex = proto.Int32(oneofIndex[field.Oneof])
		case field.Optional && !proto2:
			// proto3 optional is modelled as a synthetic single-field oneof
			fieldDesc.Proto3Optional = proto.Bool(true)
			fieldDesc.OneofIndex = proto.Int32(int32(len(msgDesc.OneofDecl)))
			msgDesc.OneofDecl = append(msgDesc.OneofDecl, &descriptorpb.OneofDescriptorProto{Name: proto.String("_" + field.Name)})
		}

		msgDesc.Field = append(msgDesc.Field, fieldDesc)
	}

	for _, nested := range msg.Nested {
		// 3 is the field number of nested_type in DescriptorProto
		nestedPath := append(append([]int32(nil), path...), 3, int32(len(msgDesc.NestedType)))
		msgDesc.NestedType = append(msgDesc.NestedType, buildMessage(t, nested, fullName+"."+nested.Name, proto2, nestedPath, info))
	}

	return msgDesc
}

// setFieldType fills in Type and TypeName for a scalar, enum or message field.
func setFieldType(fieldDesc *descriptorpb.FieldDescriptorProto, typeName string, isEnum bool) {
	switch {
	case isEnum:
		fieldDesc.Type = descriptorpb.FieldDescriptorProto_TYPE_ENUM.Enum()
		fieldDesc.TypeName = proto.String("." + typeName)
	default:
		fieldDesc.Type = GetFieldType(typeName)
		fieldDesc.TypeName = GetTypeName(typeName)
	}
}

// GetFieldType returns the proto field type enum for a type name.
// Anything that is not a scalar kind is assumed to be a message.
func GetFieldType(typeName string) *descriptorpb.FieldDescriptorProto_Type {
	if isScalar(typeName) {
		v := descriptorpb.FieldDescriptorProto_Type_value["TYPE_"+strings.ToUpper(typeName)]
		return descriptorpb.FieldDescriptorProto_Type(v).Enum()
	}
	return descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum()
}

// GetTypeName returns the full type name for message types, nil for scalars.
func GetTypeName(typeName string) *string {
	if isScalar(typeName) {
		return nil
	}
	return proto.String("." + typeName)
}

func isScalar(typeName string) bool {
	switch typeName {
	case "message", "enum", "group", "":
		return false
	}
	_, ok := descriptorpb.FieldDescriptorProto_Type_value["TYPE_"+strings.ToUpper(typeName)]
	return ok
}
