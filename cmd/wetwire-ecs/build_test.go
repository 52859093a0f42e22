package main

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/internal/compiler"
	"github.com/lex00/wetwire-ecs-go/internal/images"
)

func TestBuild_JSON(t *testing.T) {
	f := newFixture(t, sampleConfig)

	out, err := execute(t, "build", f.config, "--images", f.images)
	require.NoError(t, err)

	var tmpl wetwire.Template
	require.NoError(t, json.Unmarshal([]byte(out), &tmpl))
	assert.Equal(t, "2010-09-09", tmpl.AWSTemplateFormatVersion)
	assert.Len(t, tmpl.Resources, 7)
	assert.Equal(t, "AWS::ECS::Service", tmpl.Resources["WorkerService"].Type)
	assert.Equal(t, "AWS::Events::Rule", tmpl.Resources["NightlyreportScheduledTask"].Type)
	assert.NotNil(t, tmpl.Outputs)
}

func TestBuild_FragmentYAML(t *testing.T) {
	f := newFixture(t, sampleConfig)

	out, err := execute(t, "build", f.config, "--images", f.images, "-f", "yaml", "--fragment")
	require.NoError(t, err)
	assert.Contains(t, out, "Resources:")
	assert.Contains(t, out, "Outputs: {}")
	assert.NotContains(t, out, "AWSTemplateFormatVersion")
}

func TestBuild_OutputFile(t *testing.T) {
	f := newFixture(t, sampleConfig)
	target := f.path("template.json")

	out, err := execute(t, "build", f.config, "--images", f.images, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var tmpl wetwire.Template
	require.NoError(t, json.Unmarshal(data, &tmpl))
	assert.Len(t, tmpl.Resources, 7)
}

func TestBuild_UnknownFormat(t *testing.T) {
	f := newFixture(t, sampleConfig)

	_, err := execute(t, "build", f.config, "--images", f.images, "-f", "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestBuild_MissingImage(t *testing.T) {
	f := newFixture(t, sampleConfig)

	_, err := execute(t, "build", f.config)
	require.Error(t, err)

	var missing *compiler.MissingImageError
	assert.True(t, errors.As(err, &missing))
}

func TestBuild_ImagesFromEnv(t *testing.T) {
	f := newFixture(t, sampleConfig)
	t.Setenv(images.EnvPath, f.images)

	_, err := execute(t, "build", f.config)
	require.NoError(t, err)
}

func TestBuild_InvalidImageMap(t *testing.T) {
	f := newFixture(t, sampleConfig)
	bad := f.write(t, "bad.json", `{"worker": "Not A Reference"}`)

	_, err := execute(t, "build", f.config, "--images", bad)
	require.Error(t, err)

	var invalid *images.InvalidError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"worker"}, invalid.Names())
}

func TestBuild_Key(t *testing.T) {
	f := newFixture(t, "service: my-app\ncustom:\n  ecs:\n    tasks:\n      worker: {}\n")

	out, err := execute(t, "build", f.config, "--images", f.images, "--key", "custom.ecs")
	require.NoError(t, err)
	assert.Contains(t, out, "WorkerService")
}

func TestBuild_Report(t *testing.T) {
	f := newFixture(t, sampleConfig)

	out, err := execute(t, "build", f.config, "--images", f.images, "--report")
	require.NoError(t, err)

	var result wetwire.BuildResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Len(t, result.Resources, 7)
	assert.Len(t, result.Template.Resources, 7)
}

func TestBuild_ReportFailure(t *testing.T) {
	f := newFixture(t, sampleConfig)

	out, err := execute(t, "build", f.config, "--report")
	assert.Equal(t, 1, exitCode(t, err))

	var result wetwire.BuildResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no image")
}

func TestBuild_Deterministic(t *testing.T) {
	f := newFixture(t, sampleConfig)

	first, err := execute(t, "build", f.config, "--images", f.images)
	require.NoError(t, err)
	second, err := execute(t, "build", f.config, "--images", f.images)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
