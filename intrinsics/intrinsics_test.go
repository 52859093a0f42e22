package intrinsics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAtt_MarshalJSON(t *testing.T) {
	getAtt := GetAtt{LogicalName: "EcsIamExecutionRole", Attribute: "Arn"}
	data, err := json.Marshal(getAtt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fn::GetAtt": ["EcsIamExecutionRole", "Arn"]}`, string(data))
}

func TestSubRef(t *testing.T) {
	tests := []struct {
		name     string
		variable string
		expected string
	}{
		{"resource", "WorkerTask", `{"Fn::Sub": "${WorkerTask}"}`},
		{"log group", "EcsTasksLogGroup", `{"Fn::Sub": "${EcsTasksLogGroup}"}`},
		{"pseudo parameter", PseudoRegion, `{"Fn::Sub": "${AWS::Region}"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(SubRef(tt.variable))
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestTags_SortedByKey(t *testing.T) {
	tags := Tags(map[string]string{"team": "platform", "app": "billing", "env": "prod"})

	require.Len(t, tags, 3)
	assert.Equal(t, "app", tags[0].Key)
	assert.Equal(t, "env", tags[1].Key)
	assert.Equal(t, "team", tags[2].Key)
	assert.Equal(t, "platform", tags[2].Value)
}

func TestTags_Empty(t *testing.T) {
	tags := Tags(nil)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)

	data, err := json.Marshal(tags)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestServicePrincipal_MarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		principal ServicePrincipal
		expected  string
	}{
		{
			name:      "single service keeps list form",
			principal: ServicePrincipal{"ecs-tasks.amazonaws.com"},
			expected:  `{"Service": ["ecs-tasks.amazonaws.com"]}`,
		},
		{
			name:      "multiple services",
			principal: ServicePrincipal{"ecs-tasks.amazonaws.com", "events.amazonaws.com"},
			expected:  `{"Service": ["ecs-tasks.amazonaws.com", "events.amazonaws.com"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.principal)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestAssumeRoleStatement(t *testing.T) {
	stmt := AssumeRoleStatement("ecs-tasks.amazonaws.com", "events.amazonaws.com")
	data, err := json.Marshal(stmt)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Effect": "Allow",
		"Principal": {"Service": ["ecs-tasks.amazonaws.com", "events.amazonaws.com"]},
		"Action": ["sts:AssumeRole"]
	}`, string(data))
}

func TestNewPolicyDocument(t *testing.T) {
	doc := NewPolicyDocument()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Version": "2012-10-17", "Statement": []}`, string(data))

	doc = NewPolicyDocument(Json{"Effect": "Allow", "Action": "s3:GetObject", "Resource": "*"})
	data, err = json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Version": "2012-10-17",
		"Statement": [{"Effect": "Allow", "Action": "s3:GetObject", "Resource": "*"}]
	}`, string(data))
}
