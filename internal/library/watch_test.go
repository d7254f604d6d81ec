// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer lets the watcher write progress while the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReindexesOnChange(t *testing.T) {
	lib, dataDir := testLibrary(t)

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- lib.Watch(ctx, dataDir, 20*time.Millisecond, out) }()

	require.Eventually(t, func() bool {
		n, err := lib.Count(context.Background())
		return err == nil && n == 3
	}, 5*time.Second, 10*time.Millisecond)

	added := "@article{Added22,\n title = {Sheaf Neural Networks},\n author = {Bodnar, Cristian},\n year = {2022}\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "added.bib"), []byte(added), 0o644))

	require.Eventually(t, func() bool {
		_, err := lib.GetDocument(context.Background(), "Added22")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	assert.Contains(t, out.String(), "change detected")
}

func TestWatchMissingDir(t *testing.T) {
	lib, dataDir := testLibrary(t)
	err := lib.Watch(context.Background(), filepath.Join(dataDir, "nope"), 0, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestIsSourceEvent(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"bib write", fsnotify.Event{Name: "data/papers.bib", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "data/tools.YML", Op: fsnotify.Create}, true},
		{"yaml removed", fsnotify.Event{Name: "data/tools.yaml", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "data/papers.bib", Op: fsnotify.Chmod}, false},
		{"editor swap file", fsnotify.Event{Name: "data/.papers.bib.swp", Op: fsnotify.Write}, false},
		{"hidden bib", fsnotify.Event{Name: "data/.papers.bib", Op: fsnotify.Write}, false},
		{"other extension", fsnotify.Event{Name: "data/notes.txt", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSourceEvent(tt.event))
		})
	}
}
