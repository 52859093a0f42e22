// Package ecs contains Amazon ECS resource types.
package ecs

import (
	"github.com/lex00/wetwire-ecs-go/intrinsics"
)

// Network modes.
const (
	NetworkModeBridge = "bridge"
	NetworkModeAwsvpc = "awsvpc"
	NetworkModeHost   = "host"
)

// Launch type compatibilities.
const (
	CompatibilityEC2     = "EC2"
	CompatibilityFargate = "FARGATE"
)

// TaskDefinition represents AWS::ECS::TaskDefinition.
type TaskDefinition struct {
	ContainerDefinitions    []TaskDefinition_ContainerDefinition `json:"ContainerDefinitions"`
	Family                  string                               `json:"Family,omitempty"`
	NetworkMode             string                               `json:"NetworkMode,omitempty"`
	ExecutionRoleArn        any                                  `json:"ExecutionRoleArn,omitempty"`
	TaskRoleArn             any                                  `json:"TaskRoleArn,omitempty"`
	RequiresCompatibilities []string                             `json:"RequiresCompatibilities,omitempty"`
	Tags                    []intrinsics.Tag                     `json:"Tags"`
}

// ResourceType returns the CloudFormation resource type.
func (TaskDefinition) ResourceType() string {
	return "AWS::ECS::TaskDefinition"
}

// TaskDefinition_ContainerDefinition describes one container of a task.
type TaskDefinition_ContainerDefinition struct {
	Name              string                            `json:"Name"`
	Image             string                            `json:"Image"`
	Environment       []TaskDefinition_KeyValuePair     `json:"Environment"`
	EntryPoint        []string                          `json:"EntryPoint"`
	Command           []string                          `json:"Command"`
	Memory            string                            `json:"Memory,omitempty"`
	Cpu               int                               `json:"Cpu,omitempty"`
	MemoryReservation int                               `json:"MemoryReservation,omitempty"`
	LogConfiguration  *TaskDefinition_LogConfiguration `json:"LogConfiguration,omitempty"`
}

// TaskDefinition_KeyValuePair is a container environment variable.
type TaskDefinition_KeyValuePair struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// TaskDefinition_LogConfiguration routes container output to a log driver.
type TaskDefinition_LogConfiguration struct {
	LogDriver string         `json:"LogDriver"`
	Options   map[string]any `json:"Options,omitempty"`
}
