// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package watch re-runs a callback whenever recipe files under a directory
// tree change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/artifactgrid/internal/ctxlog"
	"github.com/specialistvlad/artifactgrid/internal/fsutil"
)

// DefaultDebounce collapses editor save bursts into one change.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches Root for files ending in Extension.
type Watcher struct {
	Root      string
	Extension string
	Debounce  time.Duration
}

// Run calls onChange once immediately and again after every debounced burst
// of relevant changes. Callback errors are logged and watching continues. Run
// returns when ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	logger := ctxlog.FromContext(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() {
		_ = fw.Close()
	}()

	dirs, err := fsutil.FindDirs(w.Root)
	if err != nil {
		return fmt.Errorf("failed to list directories under %s: %w", w.Root, err)
	}
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}
	logger.Info("Watching for changes.", "root", w.Root, "dirs", len(dirs))

	fire := func() {
		if err := onChange(ctx); err != nil {
			logger.Error("Re-evaluation failed.", "error", err)
		}
	}
	fire()

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false
	arm := func() {
		if pending && !timer.Stop() {
			<-timer.C
		}
		timer.Reset(debounce)
		pending = true
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if strings.HasPrefix(filepath.Base(ev.Name), ".") {
						continue
					}
					// A moved-in tree may already hold recipe files.
					if w.addTree(ctx, fw, ev.Name) {
						arm()
					}
					continue
				}
			}
			if !w.relevant(ev) {
				continue
			}
			logger.Debug("Change detected.", "path", ev.Name, "op", ev.Op.String())
			arm()
		case <-timer.C:
			pending = false
			fire()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)
		}
	}
}

// addTree watches dir and every directory below it.
func (w *Watcher) addTree(ctx context.Context, fw *fsnotify.Watcher, dir string) bool {
	logger := ctxlog.FromContext(ctx)
	dirs, err := fsutil.FindDirs(dir)
	if err != nil {
		logger.Warn("Failed to list new directory.", "path", dir, "error", err)
		return false
	}
	added := false
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			logger.Warn("Failed to watch new directory.", "path", d, "error", err)
			continue
		}
		added = true
	}
	if added {
		logger.Debug("Watching new directory.", "path", dir, "dirs", len(dirs))
	}
	return added
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if w.Extension != "" && !strings.HasSuffix(ev.Name, w.Extension) {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
