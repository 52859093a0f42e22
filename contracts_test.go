package wetwire_ecs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogGroup struct {
	LogGroupName string `json:"LogGroupName,omitempty"`
}

func (fakeLogGroup) ResourceType() string { return "AWS::Logs::LogGroup" }

func TestResourceGraph_MarshalJSON(t *testing.T) {
	g := NewResourceGraph()
	g.Resources["LogGroup"] = fakeLogGroup{LogGroupName: "/ecs/workers"}

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	resources := parsed["Resources"].(map[string]any)
	logGroup := resources["LogGroup"].(map[string]any)
	assert.Equal(t, "AWS::Logs::LogGroup", logGroup["Type"])
	props := logGroup["Properties"].(map[string]any)
	assert.Equal(t, "/ecs/workers", props["LogGroupName"])

	assert.Equal(t, map[string]any{}, parsed["Outputs"])
}

func TestResourceGraph_NilOutputs(t *testing.T) {
	g := ResourceGraph{Resources: map[string]Resource{}}

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Resources": {}, "Outputs": {}}`, string(data))
}

func TestNewResourceGraph(t *testing.T) {
	g := NewResourceGraph()
	assert.NotNil(t, g.Resources)
	assert.NotNil(t, g.Outputs)
	assert.Empty(t, g.Resources)
}

func TestTemplate_JSON(t *testing.T) {
	template := Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              "Workers",
		Resources: map[string]ResourceDef{
			"LogGroup": {
				Type:       "AWS::Logs::LogGroup",
				Properties: map[string]any{"LogGroupName": "/ecs/workers"},
			},
		},
		Outputs: map[string]Output{},
	}

	data, err := json.Marshal(template)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, "2010-09-09", parsed["AWSTemplateFormatVersion"])
	assert.Equal(t, "Workers", parsed["Description"])
	resources := parsed["Resources"].(map[string]any)
	assert.Contains(t, resources, "LogGroup")
	assert.Contains(t, parsed, "Outputs")
}

func TestTemplate_Fragment(t *testing.T) {
	data, err := json.Marshal(Template{Resources: map[string]ResourceDef{}})
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.NotContains(t, parsed, "AWSTemplateFormatVersion")
	assert.NotContains(t, parsed, "Description")
}

func TestResourceDef_DependsOn(t *testing.T) {
	resource := ResourceDef{
		Type:      "AWS::ECS::Service",
		DependsOn: []string{"WorkerTaskDefinition"},
	}

	data, err := json.Marshal(resource)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, []any{"WorkerTaskDefinition"}, parsed["DependsOn"])
	assert.NotContains(t, parsed, "Properties")

	data, err = json.Marshal(ResourceDef{Type: "AWS::IAM::Role"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "DependsOn")
}

func TestOutput_WithExport(t *testing.T) {
	output := Output{
		Description: "Cluster ARN",
		Value:       map[string]any{"Ref": "Cluster"},
		Export:      &OutputExport{Name: "workers-cluster"},
	}

	data, err := json.Marshal(output)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	export := parsed["Export"].(map[string]any)
	assert.Equal(t, "workers-cluster", export["Name"])
}

func TestSchemaError_Error(t *testing.T) {
	err := SchemaError{Path: "tasks.worker.cpu", Constraint: "invalid_type", Message: "Invalid type. Expected: integer, given: string"}
	assert.Equal(t, "tasks.worker.cpu: Invalid type. Expected: integer, given: string (invalid_type)", err.Error())
}

func TestBuildResult(t *testing.T) {
	result := BuildResult{
		Success:   true,
		Template:  Template{Resources: map[string]ResourceDef{"LogGroup": {Type: "AWS::Logs::LogGroup"}}},
		Resources: []string{"LogGroup"},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, parsed["success"].(bool))
	assert.Equal(t, []any{"LogGroup"}, parsed["resources"])
	assert.NotContains(t, parsed, "errors")

	data, err = json.Marshal(BuildResult{Errors: []string{`no image for task "worker"`}})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.False(t, parsed["success"].(bool))
	assert.Len(t, parsed["errors"], 1)
}

func TestLintResult(t *testing.T) {
	result := LintResult{
		Issues: []LintIssue{
			{Path: "tasks.both", Severity: "warning", Message: "task declares both schedule and service", Rule: "WEC001"},
			{Path: "clusterArn", Severity: "error", Message: `"main" is not an ARN`, Rule: "WEC003"},
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.False(t, parsed["success"].(bool))
	issues := parsed["issues"].([]any)
	require.Len(t, issues, 2)
	first := issues[0].(map[string]any)
	assert.Equal(t, "tasks.both", first["path"])
	assert.Equal(t, "WEC001", first["rule"])
}

func TestDiffResult(t *testing.T) {
	result := DiffResult{
		Diff: TemplateDiff{
			Modified: []DiffEntry{{Resource: "WorkerService", Type: "AWS::ECS::Service", Changes: []string{"DesiredCount modified"}}},
		},
		Summary: DiffSummary{Modified: 1, Total: 1},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"diff": {"modified": [{"resource": "WorkerService", "type": "AWS::ECS::Service", "changes": ["DesiredCount modified"]}]},
		"summary": {"added": 0, "removed": 0, "modified": 1, "total": 1}
	}`, string(data))
}
