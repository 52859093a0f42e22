// Package iam contains IAM resource types.
package iam

import (
	"github.com/lex00/wetwire-ecs-go/intrinsics"
)

// Role represents AWS::IAM::Role.
type Role struct {
	// AssumeRolePolicyDocument is the trust policy for the role.
	AssumeRolePolicyDocument intrinsics.PolicyDocument `json:"AssumeRolePolicyDocument"`

	// ManagedPolicyArns lists managed policies attached to the role.
	ManagedPolicyArns []string `json:"ManagedPolicyArns"`

	// Policies are the inline policies embedded in the role.
	Policies []Role_Policy `json:"Policies,omitempty"`

	// RoleName is the physical name. CloudFormation generates one when empty.
	RoleName string `json:"RoleName,omitempty"`

	// Tags are applied to the role.
	Tags []intrinsics.Tag `json:"Tags"`
}

// ResourceType returns the CloudFormation resource type.
func (Role) ResourceType() string {
	return "AWS::IAM::Role"
}

// Role_Policy is an inline policy embedded in a role.
type Role_Policy struct {
	PolicyName     string                    `json:"PolicyName"`
	PolicyDocument intrinsics.PolicyDocument `json:"PolicyDocument"`
}
