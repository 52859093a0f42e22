package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-ecs-go"
)

func validDoc() map[string]any {
	return map[string]any{
		"clusterArn":         "arn:aws:ecs:eu-west-1:123456789012:cluster/main",
		"memory":             "512",
		"cpu":                256,
		"environment":        map[string]any{"STAGE": "prod"},
		"logGroupName":       "/ecs/workers",
		"iamRoleStatements":  []any{map[string]any{"Effect": "Allow", "Action": "s3:GetObject", "Resource": "*"}},
		"iamManagedPolicies": []any{"arn:aws:iam::aws:policy/ReadOnlyAccess"},
		"tags":               map[string]any{"team": "platform"},
		"tasks": map[string]any{
			"worker": map[string]any{
				"command": []any{"node", "worker.js"},
				"service": map[string]any{"desiredCount": 2, "strict": true},
			},
			"nightly-report": map[string]any{
				"schedule": "cron(0 3 * * ? *)",
			},
		},
	}
}

// violations extracts the SchemaErrors from a Validate error.
func violations(t *testing.T, err error) []wetwire.SchemaError {
	t.Helper()
	require.Error(t, err)
	var schemaErr *Error
	require.True(t, errors.As(err, &schemaErr), "expected *schema.Error, got %T", err)
	return schemaErr.Violations
}

func hasViolation(vs []wetwire.SchemaError, path, constraint string) bool {
	for _, v := range vs {
		if v.Path == path && v.Constraint == constraint {
			return true
		}
	}
	return false
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(validDoc()))
}

func TestValidate_EmptyDocument(t *testing.T) {
	assert.NoError(t, Validate(map[string]any{}))
}

func TestValidate_BothScheduleAndServiceAccepted(t *testing.T) {
	doc := validDoc()
	doc["tasks"] = map[string]any{
		"ambiguous": map[string]any{
			"schedule": "rate(1 hour)",
			"service":  map[string]any{},
		},
	}
	assert.NoError(t, Validate(doc), "validation is structural only")
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(doc map[string]any)
		path       string
		constraint string
	}{
		{
			name:       "unknown top-level property",
			mutate:     func(doc map[string]any) { doc["region"] = "eu-west-1" },
			path:       "region",
			constraint: "additional_property_not_allowed",
		},
		{
			name:       "cpu must be an integer",
			mutate:     func(doc map[string]any) { doc["cpu"] = "256" },
			path:       "cpu",
			constraint: "invalid_type",
		},
		{
			name:       "memory must be a string",
			mutate:     func(doc map[string]any) { doc["memory"] = 512 },
			path:       "memory",
			constraint: "invalid_type",
		},
		{
			name:       "tag values must be strings",
			mutate:     func(doc map[string]any) { doc["tags"] = map[string]any{"cost-center": 42} },
			path:       "tags.cost-center",
			constraint: "invalid_type",
		},
		{
			name:       "managed policies must be strings",
			mutate:     func(doc map[string]any) { doc["iamManagedPolicies"] = []any{"arn:aws:iam::aws:policy/X", 7} },
			path:       "iamManagedPolicies.1",
			constraint: "invalid_type",
		},
		{
			name: "task key pattern",
			mutate: func(doc map[string]any) {
				doc["tasks"] = map[string]any{"my_task": map[string]any{}}
			},
			path:       "tasks.my_task",
			constraint: "invalid_property_name",
		},
		{
			name: "unknown task property",
			mutate: func(doc map[string]any) {
				doc["tasks"] = map[string]any{"worker": map[string]any{"clusterArn": "arn:aws:ecs:::cluster/x"}}
			},
			path:       "tasks.worker.clusterArn",
			constraint: "additional_property_not_allowed",
		},
		{
			name: "task cpu type",
			mutate: func(doc map[string]any) {
				doc["tasks"] = map[string]any{"worker": map[string]any{"cpu": 1.5}}
			},
			path:       "tasks.worker.cpu",
			constraint: "invalid_type",
		},
		{
			name: "service strict must be boolean",
			mutate: func(doc map[string]any) {
				doc["tasks"] = map[string]any{"worker": map[string]any{"service": map[string]any{"strict": "yes"}}}
			},
			path:       "tasks.worker.service.strict",
			constraint: "invalid_type",
		},
		{
			name: "command items must be strings",
			mutate: func(doc map[string]any) {
				doc["tasks"] = map[string]any{"worker": map[string]any{"command": []any{"node", 1}}}
			},
			path:       "tasks.worker.command.1",
			constraint: "invalid_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)

			vs := violations(t, Validate(doc))
			assert.True(t, hasViolation(vs, tt.path, tt.constraint),
				"expected %s at %s, got %+v", tt.constraint, tt.path, vs)
		})
	}
}

func TestValidate_RootMustBeObject(t *testing.T) {
	vs := violations(t, Validate([]any{"not", "an", "object"}))
	assert.True(t, hasViolation(vs, "(root)", "invalid_type"), "got %+v", vs)
}

func TestValidate_ViolationsSortedByPath(t *testing.T) {
	doc := validDoc()
	doc["zone"] = "a"
	doc["cpu"] = "x"

	vs := violations(t, Validate(doc))
	require.GreaterOrEqual(t, len(vs), 2)
	for i := 1; i < len(vs); i++ {
		assert.LessOrEqual(t, vs[i-1].Path, vs[i].Path)
	}
}

func TestError_Message(t *testing.T) {
	single := &Error{Violations: []wetwire.SchemaError{
		{Path: "cpu", Constraint: "invalid_type", Message: "Invalid type. Expected: integer, given: string"},
	}}
	assert.Equal(t, "invalid configuration: cpu: Invalid type. Expected: integer, given: string (invalid_type)", single.Error())

	multi := &Error{Violations: []wetwire.SchemaError{
		{Path: "a", Constraint: "c1", Message: "m1"},
		{Path: "b", Constraint: "c2", Message: "m2"},
	}}
	assert.Contains(t, multi.Error(), "2 violations")
	assert.Contains(t, multi.Error(), "a: m1 (c1)")
	assert.Contains(t, multi.Error(), "b: m2 (c2)")
}

func TestNormalize_MapAnyKeys(t *testing.T) {
	in := map[string]any{
		"tags": map[any]any{"team": "platform", 1: "one"},
		"list": []any{map[any]any{"k": "v"}},
	}

	out := Normalize(in).(map[string]any)
	assert.Equal(t, map[string]any{"team": "platform", "1": "one"}, out["tags"])
	assert.Equal(t, []any{map[string]any{"k": "v"}}, out["list"])
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "region", joinPath("(root)", "region"))
	assert.Equal(t, "tasks.worker.x", joinPath("tasks.worker", "x"))
	assert.Equal(t, "tasks.worker", joinPath("tasks.worker", "worker"))
}
