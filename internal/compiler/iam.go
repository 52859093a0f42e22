package compiler

import (
	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/intrinsics"
	"github.com/lex00/wetwire-ecs-go/internal/config"
	"github.com/lex00/wetwire-ecs-go/resources/iam"
)

// Service principals trusted by the generated roles.
const (
	ECSTasksPrincipal = "ecs-tasks.amazonaws.com"
	EventsPrincipal   = "events.amazonaws.com"
)

// Managed policies attached to the execution role.
const (
	TaskExecutionPolicyArn = "arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy"
	EventsRolePolicyArn    = "arn:aws:iam::aws:policy/service-role/AmazonEC2ContainerServiceEventsRole"
)

// TaskPolicyName names the inline policy carrying iamRoleStatements.
const TaskPolicyName = "EcsTaskPolicy"

func iamGraph(cfg *config.Config) *wetwire.ResourceGraph {
	g := wetwire.NewResourceGraph()
	g.Resources[ExecutionRoleID] = executionRole(cfg)
	g.Resources[TaskRoleID] = taskRole(cfg)
	return g
}

// executionRole is assumed by ECS to pull images and ship logs, and by
// EventBridge to start scheduled tasks.
func executionRole(cfg *config.Config) iam.Role {
	return iam.Role{
		AssumeRolePolicyDocument: intrinsics.NewPolicyDocument(
			intrinsics.AssumeRoleStatement(ECSTasksPrincipal, EventsPrincipal),
		),
		ManagedPolicyArns: []string{TaskExecutionPolicyArn, EventsRolePolicyArn},
		Tags:              intrinsics.Tags(cfg.Tags),
	}
}

// taskRole is assumed by the running containers.
func taskRole(cfg *config.Config) iam.Role {
	role := iam.Role{
		AssumeRolePolicyDocument: intrinsics.NewPolicyDocument(
			intrinsics.AssumeRoleStatement(ECSTasksPrincipal),
		),
		ManagedPolicyArns: append([]string{}, cfg.IamManagedPolicies...),
		Tags:              intrinsics.Tags(cfg.Tags),
	}
	if len(cfg.IamRoleStatements) > 0 {
		statements := make([]any, len(cfg.IamRoleStatements))
		for i, stmt := range cfg.IamRoleStatements {
			statements[i] = stmt
		}
		role.Policies = []iam.Role_Policy{{
			PolicyName:     TaskPolicyName,
			PolicyDocument: intrinsics.NewPolicyDocument(statements...),
		}}
	}
	return role
}
