// Package compiler turns a resolved configuration into CloudFormation
// resources.
//
// Compile runs the log group, IAM and per-task generators, each producing a
// partial graph, and merges them with collision detection. The compiler
// performs no I/O and does not modify its inputs.
package compiler

import (
	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/internal/config"
)

// Logical IDs of the shared resources.
const (
	LogGroupID      = "EcsTasksLogGroup"
	ExecutionRoleID = "EcsIamExecutionRole"
	TaskRoleID      = "EcsIamTaskRole"
)

// Logical ID suffixes of per-task resources.
const (
	TaskSuffix          = "Task"
	ServiceSuffix       = "Service"
	ScheduledTaskSuffix = "ScheduledTask"
)

// Compile builds the resource graph for cfg. images maps task or image names
// to image URIs. A nil cfg compiles like an empty one.
func Compile(images map[string]string, cfg *config.Config) (*wetwire.ResourceGraph, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	ids, err := identifiers(cfg.Tasks)
	if err != nil {
		return nil, err
	}

	tasks := wetwire.NewResourceGraph()
	for i, task := range cfg.Tasks {
		part, err := compileTask(ids[i], images, task)
		if err != nil {
			return nil, err
		}
		if tasks, err = mergeGraphs(tasks, part); err != nil {
			return nil, err
		}
	}

	return mergeGraphs(
		logGroupGraph(cfg),
		iamGraph(cfg),
		tasks,
	)
}

// TaskLogicalIDs returns the logical IDs a task compiles to: its task
// definition followed by its service or scheduled rule.
func TaskLogicalIDs(task config.Task) []string {
	id := ToIdentifier(task.Name)
	switch task.Kind.(type) {
	case config.Scheduled:
		return []string{id + TaskSuffix, id + ScheduledTaskSuffix}
	case config.Service:
		return []string{id + TaskSuffix, id + ServiceSuffix}
	default:
		return []string{id + TaskSuffix}
	}
}
