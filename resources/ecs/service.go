package ecs

import (
	"github.com/lex00/wetwire-ecs-go/intrinsics"
)

// PropagateTags values.
const (
	PropagateTagsTaskDefinition = "TASK_DEFINITION"
	PropagateTagsService        = "SERVICE"
)

// Service represents AWS::ECS::Service.
type Service struct {
	Cluster                 string                          `json:"Cluster"`
	ServiceName             string                          `json:"ServiceName"`
	DesiredCount            int                             `json:"DesiredCount"`
	DeploymentConfiguration Service_DeploymentConfiguration `json:"DeploymentConfiguration"`
	TaskDefinition          any                             `json:"TaskDefinition"`
	PropagateTags           string                          `json:"PropagateTags,omitempty"`
	Tags                    []intrinsics.Tag                `json:"Tags"`
}

// ResourceType returns the CloudFormation resource type.
func (Service) ResourceType() string {
	return "AWS::ECS::Service"
}

// Service_DeploymentConfiguration bounds the number of tasks during a deployment.
// Both percentages are always serialized; zero is meaningful for
// MinimumHealthyPercent.
type Service_DeploymentConfiguration struct {
	MaximumPercent        int `json:"MaximumPercent"`
	MinimumHealthyPercent int `json:"MinimumHealthyPercent"`
}
