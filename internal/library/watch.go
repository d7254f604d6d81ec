// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long the data directory must be quiet before a
// watched collection is re-ingested. Editors often write a file in several
// steps.
const DefaultSettle = 500 * time.Millisecond

// Watch ingests dir once and then again whenever a source file in it is
// created, written, renamed, or removed, until ctx is done. Bursts of
// changes within settle of each other trigger a single re-ingest.
// A re-ingest that fails is reported to w and watching continues.
func (l *Library) Watch(ctx context.Context, dir string, settle time.Duration, w io.Writer) error {
	if settle <= 0 {
		settle = DefaultSettle
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	if _, err := l.IngestCollection(ctx, dir, w); err != nil {
		return err
	}
	fmt.Fprintf(w, "watching %s\n", dir)

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSourceEvent(event) {
				continue
			}
			timer.Reset(settle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "watch error: %v\n", err)

		case <-timer.C:
			fmt.Fprintf(w, "\nchange detected, re-indexing %s\n", dir)
			if _, err := l.IngestCollection(ctx, dir, w); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				fmt.Fprintf(w, "re-index failed: %v\n", err)
			}
		}
	}
}

// isSourceEvent reports whether event touches a file the source loader reads.
func isSourceEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".bib", ".yaml", ".yml":
		return true
	}
	return false
}
