package trialfile

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval groups the burst of events editors emit on save
const DebounceInterval = 100 * time.Millisecond

// Watch calls onChange with the freshly parsed file every time path is
// written, until ctx is cancelled. The parent directory is watched so that
// editors replacing the file through a rename are still seen.
func Watch(ctx context.Context, path string, onChange func(*File, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(DebounceInterval)
			} else {
				timer.Reset(DebounceInterval)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			onChange(Load(abs))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("watching %s: %w", path, err))
		}
	}
}
