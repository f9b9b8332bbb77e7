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

// Package watch regenerates builders when Go sources change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/panyam/builder-gen/pkg/generator/common"
	"github.com/panyam/builder-gen/pkg/logfields"
)

// RegenerateFunc regenerates the builders of dir.
type RegenerateFunc func(ctx context.Context, dir string) error

// Watcher monitors source directories and triggers debounced regeneration
type Watcher struct {
	dirs         []string
	outputSuffix string
	debounceTime time.Duration
	regenerate   RegenerateFunc
	logger       *slog.Logger
	watcher      *fsnotify.Watcher
	pending      map[string]bool
}

// Options configures a Watcher.
type Options struct {
	Debounce     time.Duration
	OutputSuffix string
	Logger       *slog.Logger
}

// New creates a watcher over dirs. Changes are recorded from the moment New
// returns; Run acts on them.
func New(dirs []string, regenerate RegenerateFunc, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	abs := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		a, err := filepath.Abs(dir)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
		}
		if err := fw.Add(a); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", a, err)
		}
		abs = append(abs, a)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	suffix := opts.OutputSuffix
	if suffix == "" {
		suffix = common.DefaultOutputSuffix
	}

	return &Watcher{
		dirs:         abs,
		outputSuffix: suffix,
		debounceTime: opts.Debounce,
		regenerate:   regenerate,
		logger:       logger,
		watcher:      fw,
		pending:      make(map[string]bool),
	}, nil
}

// Dirs returns the absolute directories being watched.
func (w *Watcher) Dirs() []string {
	return w.dirs
}

// Close releases the watcher without running it.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run watches until ctx is cancelled and then closes the watcher.
// Regeneration errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for _, dir := range w.dirs {
		w.logger.Info("Watching for changes", logfields.Dir(dir))
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !IsSourceChange(event, w.outputSuffix) {
				continue
			}
			w.logger.Debug("Source change detected", logfields.File(event.Name), logfields.Event(event.Op.String()))
			w.pending[filepath.Dir(event.Name)] = true

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounceTime, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			w.flush(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) flush(ctx context.Context) {
	dirs := make([]string, 0, len(w.pending))
	for dir := range w.pending {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	clear(w.pending)

	for _, dir := range dirs {
		start := time.Now()
		if err := w.regenerate(ctx, dir); err != nil {
			w.logger.Error("Regeneration failed", logfields.Dir(dir), logfields.Error(err))
			continue
		}
		w.logger.Info("Regenerated builders", logfields.Dir(dir),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	}
}

// IsSourceChange reports whether event touches a Go source that can carry
// records: not a test file and not generated output.
func IsSourceChange(event fsnotify.Event, outputSuffix string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	return !common.IsGeneratedOutput(name, outputSuffix)
}
