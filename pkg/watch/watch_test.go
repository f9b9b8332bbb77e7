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

package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSourceChange(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: "/p/people.go", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "/p/people.go", Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: "/p/people.go", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/p/people.go", Op: fsnotify.Chmod}, false},
		{"test file", fsnotify.Event{Name: "/p/people_test.go", Op: fsnotify.Write}, false},
		{"generated", fsnotify.Event{Name: "/p/people_builder.go", Op: fsnotify.Write}, false},
		{"not go", fsnotify.Event{Name: "/p/README.md", Op: fsnotify.Write}, false},
		{"editor temp", fsnotify.Event{Name: "/p/.people.go", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSourceChange(tt.event, ""))
		})
	}

	assert.True(t, IsSourceChange(fsnotify.Event{Name: "people_builder.go", Op: fsnotify.Write}, "_gen.go"))
}

func TestWatcher_Regenerates(t *testing.T) {
	dir := t.TempDir()
	calls := make(chan string, 10)
	regenerate := func(_ context.Context, changed string) error {
		calls <- changed
		return errors.New("ignored")
	}

	w, err := New([]string{dir}, regenerate, Options{
		Debounce: 20 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Output and test files are ignored; the source write is picked up
	require.NoError(t, os.WriteFile(filepath.Join(dir, "people_builder.go"), []byte("package p\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "people.go"), []byte("package p\n"), 0o644))

	select {
	case got := <-calls:
		assert.Equal(t, w.Dirs()[0], got)
	case <-time.After(5 * time.Second):
		t.Fatal("no regeneration after source change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing")}, nil, Options{})
	assert.ErrorContains(t, err, "failed to watch directory")
}
