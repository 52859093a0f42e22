// Package intrinsics provides CloudFormation intrinsic functions.
// This file contains IAM policy document types and helpers.
package intrinsics

import (
	"encoding/json"
)

// PolicyVersion is the IAM policy language version used for all documents.
const PolicyVersion = "2012-10-17"

// Json is a shorthand for map[string]any.
// Used for free-form policy statements supplied by configuration.
type Json = map[string]any

// PolicyDocument represents an IAM policy document.
//
// Example:
//
//	var TrustPolicy = PolicyDocument{
//	    Version:   "2012-10-17",
//	    Statement: []any{AssumeRoleStatement},
//	}
type PolicyDocument struct {
	Version   string `json:"Version,omitempty"`
	Statement []any  `json:"Statement"`
}

// NewPolicyDocument creates a PolicyDocument with the default version and
// the given statements.
func NewPolicyDocument(statements ...any) PolicyDocument {
	if statements == nil {
		statements = []any{}
	}
	return PolicyDocument{Version: PolicyVersion, Statement: statements}
}

// PolicyStatement represents an IAM policy statement.
//
// Example:
//
//	var AssumeRole = PolicyStatement{
//	    Effect:    "Allow",
//	    Principal: ServicePrincipal{"ecs-tasks.amazonaws.com"},
//	    Action:    []any{"sts:AssumeRole"},
//	}
type PolicyStatement struct {
	Sid       string `json:"Sid,omitempty"`
	Effect    string `json:"Effect"`
	Principal any    `json:"Principal,omitempty"`
	Action    any    `json:"Action,omitempty"`
	Resource  any    `json:"Resource,omitempty"`
	Condition Json   `json:"Condition,omitempty"`
}

// AssumeRoleStatement allows the given service principals to assume a role.
func AssumeRoleStatement(services ...string) PolicyStatement {
	principal := make(ServicePrincipal, len(services))
	for i, s := range services {
		principal[i] = s
	}
	return PolicyStatement{
		Effect:    "Allow",
		Principal: principal,
		Action:    []any{"sts:AssumeRole"},
	}
}

// ServicePrincipal represents a service principal (e.g., ecs-tasks.amazonaws.com).
// Serializes to {"Service": [...]} format. The list form is kept even for a
// single service so trust policies read the same regardless of length.
//
// Examples:
//
//	ServicePrincipal{"ecs-tasks.amazonaws.com"}
//	ServicePrincipal{"ecs-tasks.amazonaws.com", "events.amazonaws.com"}
type ServicePrincipal []any

// MarshalJSON serializes to {"Service": [...]} format.
func (p ServicePrincipal) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"Service": []any(p)})
}
