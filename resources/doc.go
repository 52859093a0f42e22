// Package resources groups the typed CloudFormation resource declarations
// emitted by the ECS compiler. Each subpackage mirrors one CloudFormation
// service namespace:
//
//	logs.LogGroup        → AWS::Logs::LogGroup
//	iam.Role             → AWS::IAM::Role
//	ecs.TaskDefinition   → AWS::ECS::TaskDefinition
//	ecs.Service          → AWS::ECS::Service
//	events.Rule          → AWS::Events::Rule
//
// Property structs follow the CloudFormation naming, with nested property
// types named Resource_Property (e.g. ecs.Service_DeploymentConfiguration).
package resources
