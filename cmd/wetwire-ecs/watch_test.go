package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWatchCmd(t *testing.T) {
	cmd := newWatchCmd(&app{})

	if cmd.Use != "watch <config>" {
		t.Errorf("Use = %q, want 'watch <config>'", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}
	for _, flag := range []string{"debounce", "format", "output", "fragment"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("missing --%s flag", flag)
		}
	}
}

func TestDebounceDefault(t *testing.T) {
	cmd := newWatchCmd(&app{})

	flag := cmd.Flags().Lookup("debounce")
	if flag == nil {
		t.Fatal("missing --debounce flag")
	}
	if flag.DefValue != "500ms" {
		t.Errorf("debounce default = %q, want '500ms'", flag.DefValue)
	}
}

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "ecs.yml")
	watched, err := watchedFiles(config, "")
	require.NoError(t, err)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: config, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: config, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: config, Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: config, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.event, watched))
		})
	}
}

func TestWatchedFiles(t *testing.T) {
	files, err := watchedFiles("ecs.yml", "images.json")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for file := range files {
		assert.True(t, filepath.IsAbs(file))
	}
}

func TestRunWatch_StopsOnCancel(t *testing.T) {
	f := newFixture(t, sampleConfig)
	target := f.path("template.json")
	a := &app{imagesPath: f.images, log: zap.NewNop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := runWatch(ctx, &out, a, f.config, watchOptions{format: "json", output: target})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Watching: "+f.dir)
	assert.Contains(t, out.String(), "Build successful, wrote "+target)
	assert.Contains(t, out.String(), "Stopping watch")

	_, err = os.Stat(target)
	assert.NoError(t, err)
}

func TestRebuild(t *testing.T) {
	f := newFixture(t, sampleConfig)

	var out bytes.Buffer
	rebuild(&out, &app{imagesPath: f.images, log: zap.NewNop()}, f.config, watchOptions{format: "json"})
	assert.Contains(t, out.String(), "Build successful")
	assert.Contains(t, out.String(), "Generated 7 resources")

	out.Reset()
	rebuild(&out, &app{log: zap.NewNop()}, f.config, watchOptions{format: "json"})
	assert.Contains(t, out.String(), "Build error:")

	bad := f.write(t, "bad.yml", "clusterArn: main\ntasks:\n  worker: {}\n")
	out.Reset()
	rebuild(&out, &app{imagesPath: f.images, log: zap.NewNop()}, bad, watchOptions{format: "json"})
	assert.Contains(t, out.String(), "[WEC003]")
	assert.Contains(t, out.String(), "Lint failed, skipping build")
}
