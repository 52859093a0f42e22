package intrinsics

// Pseudo-parameters are predefined by CloudFormation and available in every
// template. These are the names as they appear inside Fn::Sub strings.
const (
	// PseudoRegion is the AWS Region in which the stack is created.
	PseudoRegion = "AWS::Region"

	// PseudoAccountID is the AWS account ID of the stack.
	PseudoAccountID = "AWS::AccountId"

	// PseudoPartition is the partition the stack is in (aws, aws-cn, aws-us-gov).
	PseudoPartition = "AWS::Partition"
)

// SubRef returns Fn::Sub of a single variable: SubRef("WorkerTask") → {"Fn::Sub": "${WorkerTask}"}.
// For a resource logical ID this resolves to the resource's Ref value.
func SubRef(name string) Sub {
	return Sub{String: "${" + name + "}"}
}
