// Package logs contains CloudWatch Logs resource types.
package logs

import (
	"github.com/lex00/wetwire-ecs-go/intrinsics"
)

// LogGroup represents AWS::Logs::LogGroup.
type LogGroup struct {
	// LogGroupName is the name of the log group. CloudFormation generates
	// one when empty.
	LogGroupName any `json:"LogGroupName,omitempty"`

	// RetentionInDays is the number of days to retain log events.
	RetentionInDays int `json:"RetentionInDays,omitempty"`

	// Tags are applied to the log group.
	Tags []intrinsics.Tag `json:"Tags"`
}

// ResourceType returns the CloudFormation resource type.
func (LogGroup) ResourceType() string {
	return "AWS::Logs::LogGroup"
}
