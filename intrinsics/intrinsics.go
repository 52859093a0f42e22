// Package intrinsics provides the CloudFormation intrinsic functions used by
// compiled ECS resources.
//
// The core types are re-exported from cloudformation-schema-go:
//
//	Ref{"EcsIamTaskRole"} → {"Ref": "EcsIamTaskRole"}
//	GetAtt{"EcsIamExecutionRole", "Arn"} → {"Fn::GetAtt": ["EcsIamExecutionRole", "Arn"]}
//	Sub{"${WorkerTask}"} → {"Fn::Sub": "${WorkerTask}"}
package intrinsics

import (
	"sort"

	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// Tags converts a key/value mapping into a CloudFormation tag list.
// Tags are sorted by key so the output is stable across runs.
// A nil or empty mapping yields an empty, non-nil list.
func Tags(m map[string]string) []Tag {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]Tag, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, Tag{Key: k, Value: m[k]})
	}
	return tags
}
