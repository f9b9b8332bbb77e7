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
	"fmt"

	"google.golang.org/protobuf/compiler/protogen"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Qualifier returns the source text that refers to a Go identifier from the
// file being generated, registering whatever import that needs.
type Qualifier func(ident protogen.GoIdent) string

// ProtoScalarToGo maps proto scalar types to their Go equivalents.
//
// This function handles the conversion of proto primitive types to Go types.
// It's used for scalar fields, map keys, and array elements.
//
// Parameters:
//   - protoType: The proto kind as a string (e.g., "string", "int32", "bool")
//
// Returns:
//   - the corresponding Go type (e.g., "string", "int32", "bool")
//   - "interface{}" for unknown types (fallback)
func ProtoScalarToGo(protoType string) string {
	switch protoType {
	case "string":
		return "string"
	case "int32", "sint32", "sfixed32":
		return "int32"
	case "int64", "sint64", "sfixed64":
		return "int64"
	case "uint32", "fixed32":
		return "uint32"
	case "uint64", "fixed64":
		return "uint64"
	case "bool":
		return "bool"
	case "float":
		return "float32"
	case "double":
		return "float64"
	case "bytes":
		return "[]byte"
	default:
		return "interface{}" // Fallback for unknown types
	}
}

// ProtoFieldToGoType returns the type protoc-gen-go gives a field in the
// generated message struct.
//
// Builders set the message's struct fields directly, so the declared type has
// to match the generated struct exactly:
//   - Scalars: "string", "int32", etc.
//   - Scalars with explicit presence (proto3 optional, proto2): "*string", "*int32"
//   - Bytes: "[]byte" (never a pointer)
//   - Enums: "Status" or "libraryv1.Status" (qualified when in another package)
//   - Messages: "*Author" or "*libraryv1.Author"
//   - Repeated: "[]string", "[]Status", "[]*Author"
//   - Maps: "map[string]int32", "map[string]*Author"
//
// Parameters:
//   - field: The proto field to convert
//   - qualify: Renders identifiers from other packages and records their imports
//
// Returns:
//   - the Go type string for the field
func ProtoFieldToGoType(field *protogen.Field, qualify Qualifier) string {
	if field.Desc.IsMap() {
		// maps always have key at index 0 and value at index 1
		keyType := protoElemGoType(field.Message.Fields[0], qualify)
		valueType := protoElemGoType(field.Message.Fields[1], qualify)
		return fmt.Sprintf("map[%s]%s", keyType, valueType)
	}

	elemType := protoElemGoType(field, qualify)
	if field.Desc.IsList() {
		return "[]" + elemType
	}
	if hasPointerPresence(field) {
		return "*" + elemType
	}
	return elemType
}

// protoElemGoType returns the Go type of a single element of field.
func protoElemGoType(field *protogen.Field, qualify Qualifier) string {
	switch field.Desc.Kind() {
	case protoreflect.EnumKind:
		return qualify(field.Enum.GoIdent)
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return "*" + qualify(field.Message.GoIdent)
	default:
		return ProtoScalarToGo(field.Desc.Kind().String())
	}
}

// hasPointerPresence reports whether protoc-gen-go tracks presence for a
// singular field by making it a pointer. Messages are pointers already and
// bytes use nil.
func hasPointerPresence(field *protogen.Field) bool {
	if field.Desc.IsList() || field.Desc.IsMap() {
		return false
	}
	switch field.Desc.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind, protoreflect.BytesKind:
		return false
	}
	return field.Desc.HasPresence()
}
