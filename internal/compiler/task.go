package compiler

import (
	"sort"

	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/intrinsics"
	"github.com/lex00/wetwire-ecs-go/internal/config"
	"github.com/lex00/wetwire-ecs-go/resources/ecs"
	"github.com/lex00/wetwire-ecs-go/resources/events"
)

// Container defaults.
const (
	MemoryReservation  = 128
	LogDriver          = "awslogs"
	LogStreamPrefix    = "ecs"
	ScheduledTaskCount = 1
)

// compileTask emits the task definition plus the service or scheduled rule
// for one task.
func compileTask(id string, images map[string]string, task config.Task) (*wetwire.ResourceGraph, error) {
	image, err := imageFor(images, task)
	if err != nil {
		return nil, err
	}

	g := wetwire.NewResourceGraph()
	taskID := id + TaskSuffix
	g.Resources[taskID] = taskDefinition(image, task)

	switch kind := task.Kind.(type) {
	case config.Scheduled:
		g.Resources[id+ScheduledTaskSuffix] = scheduledRule(id, taskID, task, kind)
	case config.Service:
		g.Resources[id+ServiceSuffix] = service(taskID, task, kind)
	default:
		return nil, &UnknownKindError{Task: task.Name, Kind: task.Kind}
	}
	return g, nil
}

// imageFor looks the image up by task name, then by the task's image name,
// and finally falls back to the task's image as a literal reference.
func imageFor(images map[string]string, task config.Task) (string, error) {
	if uri, ok := images[task.Name]; ok && uri != "" {
		return uri, nil
	}
	if task.Image != "" {
		if uri, ok := images[task.Image]; ok && uri != "" {
			return uri, nil
		}
		return task.Image, nil
	}
	return "", &MissingImageError{Task: task.Name}
}

func taskDefinition(image string, task config.Task) ecs.TaskDefinition {
	container := ecs.TaskDefinition_ContainerDefinition{
		Name:              task.Name,
		Image:             image,
		Environment:       environment(task.Environment),
		EntryPoint:        append([]string{}, task.EntryPoint...),
		Command:           append([]string{}, task.Command...),
		Memory:            task.Memory,
		Cpu:               task.Cpu,
		MemoryReservation: MemoryReservation,
		LogConfiguration: &ecs.TaskDefinition_LogConfiguration{
			LogDriver: LogDriver,
			Options: map[string]any{
				"awslogs-region":        intrinsics.SubRef(intrinsics.PseudoRegion),
				"awslogs-group":         intrinsics.SubRef(LogGroupID),
				"awslogs-stream-prefix": LogStreamPrefix,
			},
		},
	}

	return ecs.TaskDefinition{
		ContainerDefinitions:    []ecs.TaskDefinition_ContainerDefinition{container},
		Family:                  task.Name,
		NetworkMode:             ecs.NetworkModeBridge,
		ExecutionRoleArn:        roleArn(task.ExecutionRoleArn, ExecutionRoleID),
		TaskRoleArn:             roleArn(task.TaskRoleArn, TaskRoleID),
		RequiresCompatibilities: []string{ecs.CompatibilityEC2},
		Tags:                    intrinsics.Tags(task.Tags),
	}
}

// roleArn is the configured ARN, or a reference to the generated role.
func roleArn(configured, generated string) any {
	if configured != "" {
		return configured
	}
	return intrinsics.SubRef(generated)
}

// environment flattens a mapping into name/value pairs sorted by name.
func environment(env map[string]string) []ecs.TaskDefinition_KeyValuePair {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]ecs.TaskDefinition_KeyValuePair, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, ecs.TaskDefinition_KeyValuePair{Name: name, Value: env[name]})
	}
	return pairs
}

func scheduledRule(id, taskID string, task config.Task, kind config.Scheduled) events.Rule {
	return events.Rule{
		ScheduleExpression: kind.Expression,
		Targets: []events.Rule_Target{{
			Id:      id,
			Arn:     task.ClusterArn,
			RoleArn: intrinsics.GetAtt{LogicalName: ExecutionRoleID, Attribute: "Arn"},
			EcsParameters: &events.Rule_EcsParameters{
				TaskDefinitionArn: intrinsics.SubRef(taskID),
				TaskCount:         ScheduledTaskCount,
			},
		}},
	}
}

func service(taskID string, task config.Task, kind config.Service) ecs.Service {
	return ecs.Service{
		Cluster:      task.ClusterArn,
		ServiceName:  task.Name,
		DesiredCount: kind.DesiredCount,
		DeploymentConfiguration: ecs.Service_DeploymentConfiguration{
			MaximumPercent:        kind.MaximumPercent,
			MinimumHealthyPercent: kind.MinimumHealthyPercent,
		},
		TaskDefinition: intrinsics.SubRef(taskID),
		PropagateTags:  ecs.PropagateTagsTaskDefinition,
		Tags:           intrinsics.Tags(task.Tags),
	}
}
