// Package events contains Amazon EventBridge resource types.
package events

// Rule represents AWS::Events::Rule.
type Rule struct {
	Description        string        `json:"Description,omitempty"`
	ScheduleExpression string        `json:"ScheduleExpression,omitempty"`
	State              string        `json:"State,omitempty"`
	Targets            []Rule_Target `json:"Targets"`
}

// ResourceType returns the CloudFormation resource type.
func (Rule) ResourceType() string {
	return "AWS::Events::Rule"
}

// Rule_Target is a rule invocation target.
type Rule_Target struct {
	Id            string              `json:"Id"`
	Arn           string              `json:"Arn"`
	RoleArn       any                 `json:"RoleArn,omitempty"`
	EcsParameters *Rule_EcsParameters `json:"EcsParameters,omitempty"`
}

// Rule_EcsParameters runs an ECS task when the rule fires.
type Rule_EcsParameters struct {
	TaskDefinitionArn any `json:"TaskDefinitionArn"`
	TaskCount         int `json:"TaskCount"`
}
