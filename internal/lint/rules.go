package lint

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/lex00/wetwire-ecs-go/internal/compiler"
	"github.com/lex00/wetwire-ecs-go/internal/config"
)

func taskPath(key string, field ...string) string {
	p := "tasks." + key
	for _, f := range field {
		p += "." + f
	}
	return p
}

// AmbiguousTopology detects tasks with both a schedule and a service block.
type AmbiguousTopology struct{}

func (r AmbiguousTopology) ID() string { return "WEC001" }
func (r AmbiguousTopology) Description() string {
	return "Task declares both schedule and service"
}

func (r AmbiguousTopology) Check(in *Input) []Issue {
	var issues []Issue
	for _, nt := range in.Raw.Tasks {
		if nt.Task.Schedule != "" && nt.Task.Service != nil {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityWarning,
				Path:     taskPath(nt.Key),
				Message:  "task declares both schedule and service; it will run as a scheduled task and the service block is ignored",
			})
		}
	}
	return issues
}

// MissingTopology detects tasks with neither a schedule nor a service block.
type MissingTopology struct{}

func (r MissingTopology) ID() string { return "WEC002" }
func (r MissingTopology) Description() string {
	return "Task declares neither schedule nor service"
}

func (r MissingTopology) Check(in *Input) []Issue {
	var issues []Issue
	for _, nt := range in.Raw.Tasks {
		if nt.Task.Schedule == "" && nt.Task.Service == nil {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityInfo,
				Path:     taskPath(nt.Key),
				Message:  "task declares neither schedule nor service; it will run as a service with default settings",
			})
		}
	}
	return issues
}

// MalformedArn checks every ARN in the configuration parses and names the
// expected service.
type MalformedArn struct{}

func (r MalformedArn) ID() string { return "WEC003" }
func (r MalformedArn) Description() string {
	return "Malformed or unexpected ARN"
}

func (r MalformedArn) Check(in *Input) []Issue {
	var issues []Issue
	check := func(path, value, service string) {
		if value == "" {
			return
		}
		if msg := checkArn(value, service); msg != "" {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityError,
				Path:     path,
				Message:  msg,
			})
		}
	}

	raw := in.Raw
	check("clusterArn", raw.ClusterArn, "ecs")
	check("executionRoleArn", raw.ExecutionRoleArn, "iam")
	check("taskRoleArn", raw.TaskRoleArn, "iam")
	for i, policy := range raw.IamManagedPolicies {
		check(fmt.Sprintf("iamManagedPolicies.%d", i), policy, "iam")
	}
	for _, nt := range raw.Tasks {
		check(taskPath(nt.Key, "executionRoleArn"), nt.Task.ExecutionRoleArn, "iam")
		check(taskPath(nt.Key, "taskRoleArn"), nt.Task.TaskRoleArn, "iam")
	}
	return issues
}

func checkArn(value, service string) string {
	if !arn.IsARN(value) {
		return fmt.Sprintf("%q is not an ARN", value)
	}
	parsed, err := arn.Parse(value)
	if err != nil {
		return fmt.Sprintf("%q is not a valid ARN: %v", value, err)
	}
	if parsed.Service != service {
		return fmt.Sprintf("%q is a %s ARN, expected %s", value, parsed.Service, service)
	}
	return ""
}

// ServiceBounds checks service deployment settings are usable.
type ServiceBounds struct{}

func (r ServiceBounds) ID() string { return "WEC004" }
func (r ServiceBounds) Description() string {
	return "Inconsistent service deployment bounds"
}

func (r ServiceBounds) Check(in *Input) []Issue {
	var issues []Issue
	for _, nt := range in.Raw.Tasks {
		if nt.Task.Schedule != "" {
			continue
		}
		kind := config.ResolveService(nt.Task.Service)
		add := func(field, msg string) {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityError,
				Path:     taskPath(nt.Key, "service", field),
				Message:  msg,
			})
		}
		if kind.DesiredCount < 0 {
			add("desiredCount", fmt.Sprintf("desiredCount %d is negative", kind.DesiredCount))
		}
		if kind.MaximumPercent < 0 {
			add("maximumPercent", fmt.Sprintf("maximumPercent %d is negative", kind.MaximumPercent))
		}
		if kind.MinimumHealthyPercent < 0 {
			add("minimumHealthyPercent", fmt.Sprintf("minimumHealthyPercent %d is negative", kind.MinimumHealthyPercent))
		}
		if kind.MinimumHealthyPercent > kind.MaximumPercent {
			add("minimumHealthyPercent", fmt.Sprintf("minimumHealthyPercent %d exceeds maximumPercent %d",
				kind.MinimumHealthyPercent, kind.MaximumPercent))
		}
	}
	return issues
}

// MissingImage detects tasks the compiler cannot find an image for.
type MissingImage struct{}

func (r MissingImage) ID() string { return "WEC005" }
func (r MissingImage) Description() string {
	return "No image available for a task"
}

func (r MissingImage) Check(in *Input) []Issue {
	if in.Images == nil {
		return nil
	}
	var issues []Issue
	for _, nt := range in.Raw.Tasks {
		if nt.Task.Image != "" {
			continue
		}
		name := nt.Task.Name
		if name == "" {
			name = nt.Key
		}
		if in.Images[name] == "" {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityWarning,
				Path:     taskPath(nt.Key),
				Message:  fmt.Sprintf("no image named %q in the image map and no image set on the task", name),
			})
		}
	}
	return issues
}

// IdentifierCollision detects task names that normalize to the same or an
// empty identifier.
type IdentifierCollision struct{}

func (r IdentifierCollision) ID() string { return "WEC006" }
func (r IdentifierCollision) Description() string {
	return "Task names that collide after identifier normalization"
}

func (r IdentifierCollision) Check(in *Input) []Issue {
	var issues []Issue
	owner := make(map[string]string)
	for _, nt := range in.Raw.Tasks {
		name := nt.Task.Name
		if name == "" {
			name = nt.Key
		}
		id := compiler.ToIdentifier(name)
		if id == "" {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityError,
				Path:     taskPath(nt.Key, "name"),
				Message:  fmt.Sprintf("task name %q has no alphanumeric characters", name),
			})
			continue
		}
		if first, ok := owner[id]; ok {
			issues = append(issues, Issue{
				Rule:     r.ID(),
				Severity: SeverityError,
				Path:     taskPath(nt.Key),
				Message:  fmt.Sprintf("task %q and task %q both become identifier %q", first, name, id),
			})
			continue
		}
		owner[id] = name
	}
	return issues
}

// UnnamedLogGroup detects a missing logGroupName.
type UnnamedLogGroup struct{}

func (r UnnamedLogGroup) ID() string { return "WEC007" }
func (r UnnamedLogGroup) Description() string {
	return "No logGroupName"
}

func (r UnnamedLogGroup) Check(in *Input) []Issue {
	if in.Raw.LogGroupName != "" || len(in.Raw.Tasks) == 0 {
		return nil
	}
	return []Issue{{
		Rule:     r.ID(),
		Severity: SeverityWarning,
		Path:     "logGroupName",
		Message:  "logGroupName is not set; CloudFormation will generate a log group name",
	}}
}
