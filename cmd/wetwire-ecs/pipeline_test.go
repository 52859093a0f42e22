package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadImages_MissingFileWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	missing := filepath.Join(t.TempDir(), "imgs.jsn")
	a := &app{imagesPath: missing, log: zap.New(core)}

	m, err := a.loadImages()
	require.NoError(t, err)
	assert.Empty(t, m)

	entries := logs.FilterMessageSnippet("image mapping not found").All()
	require.Len(t, entries, 1)
	assert.Equal(t, missing, entries[0].ContextMap()["path"])
}

func TestLoadImages_PresentFileIsQuiet(t *testing.T) {
	f := newFixture(t, sampleConfig)
	core, logs := observer.New(zapcore.WarnLevel)
	a := &app{imagesPath: f.images, log: zap.New(core)}

	m, err := a.loadImages()
	require.NoError(t, err)
	assert.Len(t, m, len(sampleImages))
	assert.Zero(t, logs.Len())
}
