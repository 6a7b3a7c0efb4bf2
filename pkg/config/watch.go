package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watch reloads path whenever it changes and calls fn with the result. A
// file that fails to load or validate is reported through fn as an error and
// the previous settings stay in effect. Watch blocks until ctx ends.
//
// The parent directory is watched so that editors replacing the file through
// a rename are still seen.
func Watch(ctx context.Context, path string, fn func(Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	name := filepath.Base(abs)
	debounce := time.NewTimer(0)
	<-debounce.C
	pending := false

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			debounce.Reset(reloadDebounce)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			cfg, err := LoadFromFile(abs)
			if err == nil {
				err = cfg.Validate()
			}
			fn(cfg, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fn(Config{}, fmt.Errorf("watch %s: %w", path, err))
		}
	}
}
