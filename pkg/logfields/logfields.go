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

// Package logfields defines the attribute keys builder-gen logs with, so the
// CLI, the protoc plugin and the watcher agree on names.
package logfields

import "log/slog"

const (
	KeyFile       = "file"
	KeyOutput     = "output"
	KeyDir        = "dir"
	KeyPackage    = "package"
	KeyRecord     = "record"
	KeyField      = "field"
	KeyFields     = "fields"
	KeyRecords    = "records"
	KeyFiles      = "files"
	KeyFormat     = "format"
	KeyEvent      = "event"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func File(path string) slog.Attr      { return slog.String(KeyFile, path) }
func Output(path string) slog.Attr    { return slog.String(KeyOutput, path) }
func Dir(path string) slog.Attr       { return slog.String(KeyDir, path) }
func Package(name string) slog.Attr   { return slog.String(KeyPackage, name) }
func Record(name string) slog.Attr    { return slog.String(KeyRecord, name) }
func Field(name string) slog.Attr     { return slog.String(KeyField, name) }
func Fields(n int) slog.Attr          { return slog.Int(KeyFields, n) }
func Records(n int) slog.Attr         { return slog.Int(KeyRecords, n) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Format(name string) slog.Attr    { return slog.String(KeyFormat, name) }
func Event(op string) slog.Attr       { return slog.String(KeyEvent, op) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
