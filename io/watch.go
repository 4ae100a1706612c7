package io

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchFluidConfig re-reads the config file fname every time it changes and
// passes the result to fn. A file which fails to parse is passed on as an
// error. It blocks until ctx is cancelled.
//
// The directory containing fname is watched rather than the file itself, so
// editors which replace the file on save are still followed.
func WatchFluidConfig(
	ctx context.Context, fname string, fn func(*FluidConfig, error),
) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watching %s: %w", fname, err)
	}
	defer w.Close()

	target, err := filepath.Abs(fname)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", fname, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fn(ReadFluidConfig(fname))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(nil, fmt.Errorf("watching %s: %w", fname, err))
		}
	}
}
