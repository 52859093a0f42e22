package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-ecs-go"
)

func TestNewOptimizeCmd(t *testing.T) {
	cmd := newOptimizeCmd(&app{})

	assert.Equal(t, "optimize <config>", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("format"))
	assert.NotNil(t, cmd.Flags().Lookup("category"))
}

func TestOptimize_Text(t *testing.T) {
	f := newFixture(t, sampleConfig)

	out, err := execute(t, "optimize", f.config, "--images", f.images)
	require.NoError(t, err)
	assert.Contains(t, out, "Analyzed 7 resources.")
	assert.Contains(t, out, "=== Cost")
	assert.Contains(t, out, "Log group keeps events forever (OPT-LOG-001)")
	assert.Contains(t, out, "Resource: EcsTasksLogGroup")
	assert.Contains(t, out, "Summary:")
}

func TestOptimize_JSONCategory(t *testing.T) {
	f := newFixture(t, sampleConfig+`tags:
  team: platform
iamRoleStatements:
  - Effect: Allow
    Action: "*"
    Resource: "*"
`)

	out, err := execute(t, "optimize", f.config, "--images", f.images, "-f", "json", "-c", "security")
	require.NoError(t, err)

	var result wetwire.OptimizeResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 7, result.ResourceCount)
	assert.Equal(t, 2, result.Summary.Security)
	assert.Equal(t, result.Summary.Security, result.Summary.Total)
	for _, s := range result.Suggestions {
		assert.Equal(t, "EcsIamTaskRole", s.Resource)
	}
}

func TestOptimize_NoSuggestions(t *testing.T) {
	f := newFixture(t, sampleConfig)

	out, err := execute(t, "optimize", f.config, "--images", f.images, "-c", "performance")
	require.NoError(t, err)
	assert.Contains(t, out, "No optimization suggestions.")
}

func TestOptimize_InvalidCategory(t *testing.T) {
	f := newFixture(t, sampleConfig)

	_, err := execute(t, "optimize", f.config, "-c", "speed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category: speed")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Security", capitalize("security"))
	assert.Equal(t, "", capitalize(""))
}
