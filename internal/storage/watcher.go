package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow batches rapid-fire events (editors often write a file
// several times in quick succession) into a single callback.
const debounceWindow = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the drafts directory and invokes
// onChange (if non-nil) with the affected file name once activity settles.
// It runs until ctx is cancelled. Temp files produced by WriteAtomic are
// ignored; only the final renamed name is reported.
func Watch(ctx context.Context, dir string, logger *slog.Logger, onChange func(name string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", dir))

	var debounce *time.Timer
	var fire <-chan time.Time
	var pending string

	schedule := func(name string) {
		pending = name
		if debounce == nil {
			debounce = time.NewTimer(debounceWindow)
			fire = debounce.C
		} else {
			debounce.Reset(debounceWindow)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			debounce = nil
			fire = nil
			logger.Debug("watcher: change settled", slog.String("name", pending))
			if onChange != nil {
				onChange(pending)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			base := filepath.Base(ev.Name)
			if strings.HasPrefix(base, ".dagaz-tmp-") {
				continue
			}
			schedule(base)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
