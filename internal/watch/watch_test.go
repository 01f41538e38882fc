package watch

import (
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestIgnoreEvent_SkipsGitAndSidecarPaths(t *testing.T) {
	cases := []struct {
		name string
		path string
		want bool
	}{
		{"plain file", "/repo/main.go", false},
		{"git internals", "/repo/.git/index", true},
		{"git dir itself", "/repo/.git", true},
		{"sidecar review doc", "/repo/.er-review.json", true},
		{"sidecar order doc", "/repo/.er-order.json", true},
		{"nested normal file", "/repo/internal/pkg/file.go", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ignoreEvent(fsnotify.Event{Name: tc.path, Op: fsnotify.Write})
			if got != tc.want {
				t.Errorf("ignoreEvent(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestWatcher_ChangesClosedAfterClose(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, ok := <-w.Changes()
	if ok {
		t.Error("expected Changes() channel to be closed after Close")
	}
}
