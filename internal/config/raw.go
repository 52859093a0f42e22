// Package config loads raw ECS configuration and resolves it into fully
// merged per-task settings.
//
// Loading (Load, LoadFile) parses YAML or JSON, validates it against the
// configuration schema and decodes it into Raw. Resolve turns a Raw into a
// Config in which every task carries its complete settings.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Raw is the configuration as authored, after schema validation.
type Raw struct {
	ClusterArn         string            `yaml:"clusterArn"`
	Memory             string            `yaml:"memory"`
	Cpu                int               `yaml:"cpu"`
	Environment        map[string]string `yaml:"environment"`
	ExecutionRoleArn   string            `yaml:"executionRoleArn"`
	TaskRoleArn        string            `yaml:"taskRoleArn"`
	LogGroupName       string            `yaml:"logGroupName"`
	IamRoleStatements  []map[string]any  `yaml:"iamRoleStatements"`
	IamManagedPolicies []string          `yaml:"iamManagedPolicies"`
	Tags               map[string]string `yaml:"tags"`
	Tasks              Tasks             `yaml:"tasks"`
}

// RawTask is a single entry under "tasks".
type RawTask struct {
	Name             string            `yaml:"name"`
	Image            string            `yaml:"image"`
	ExecutionRoleArn string            `yaml:"executionRoleArn"`
	TaskRoleArn      string            `yaml:"taskRoleArn"`
	Command          []string          `yaml:"command"`
	EntryPoint       []string          `yaml:"entryPoint"`
	Memory           string            `yaml:"memory"`
	Cpu              int               `yaml:"cpu"`
	Environment      map[string]string `yaml:"environment"`
	Tags             map[string]string `yaml:"tags"`
	Schedule         string            `yaml:"schedule"`
	Service          *RawService       `yaml:"service"`
}

// RawService holds the service block of a task. Pointer fields distinguish
// an explicit zero from an absent value.
type RawService struct {
	DesiredCount          *int `yaml:"desiredCount"`
	MaximumPercent        *int `yaml:"maximumPercent"`
	MinimumHealthyPercent *int `yaml:"minimumHealthyPercent"`
	Strict                bool `yaml:"strict"`
}

// NamedTask pairs a task with its key under "tasks".
type NamedTask struct {
	Key  string
	Task RawTask
}

// Tasks is the "tasks" mapping in declaration order.
type Tasks []NamedTask

// UnmarshalYAML decodes a mapping node while keeping key order. Merge keys
// ("<<") contribute the tasks of the merged mappings at their position;
// explicit keys override merged ones.
func (t *Tasks) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: tasks must be a mapping", node.Line)
	}
	entries, err := taskEntries(node)
	if err != nil {
		return err
	}

	out := make(Tasks, 0, len(entries))
	for _, e := range entries {
		var task RawTask
		if err := e.value.Decode(&task); err != nil {
			return fmt.Errorf("tasks.%s: %w", e.key, err)
		}
		out = append(out, NamedTask{Key: e.key, Task: task})
	}
	*t = out
	return nil
}

type taskEntry struct {
	key   string
	value *yaml.Node
}

// taskEntries flattens a mapping node, expanding merge keys. A key seen
// twice keeps its first position; an explicit value replaces a merged one,
// and among merged values the first wins.
func taskEntries(node *yaml.Node) ([]taskEntry, error) {
	var entries []taskEntry
	index := make(map[string]int)

	add := func(key string, value *yaml.Node, explicit bool) {
		if i, ok := index[key]; ok {
			if explicit {
				entries[i].value = value
			}
			return
		}
		index[key] = len(entries)
		entries = append(entries, taskEntry{key: key, value: value})
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if !isMergeKey(keyNode) {
			add(keyNode.Value, valNode, true)
			continue
		}
		sources, err := mergeSources(valNode)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			merged, err := taskEntries(src)
			if err != nil {
				return nil, err
			}
			for _, e := range merged {
				add(e.key, e.value, false)
			}
		}
	}
	return entries, nil
}

// mergeSources returns the mappings named by a merge value: a mapping, an
// alias to one, or a sequence of those.
func mergeSources(node *yaml.Node) ([]*yaml.Node, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{node}, nil
	case yaml.SequenceNode:
		sources := make([]*yaml.Node, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolveAlias(item)
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: merge value must be a mapping", item.Line)
			}
			sources = append(sources, item)
		}
		return sources, nil
	default:
		return nil, fmt.Errorf("line %d: merge value must be a mapping or a sequence of mappings", node.Line)
	}
}

func isMergeKey(node *yaml.Node) bool {
	if node.Kind != yaml.ScalarNode || node.Value != "<<" {
		return false
	}
	switch node.Tag {
	case "", "!", "!!merge", "tag:yaml.org,2002:merge":
		return true
	}
	return false
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// Keys returns the task keys in declaration order.
func (t Tasks) Keys() []string {
	keys := make([]string, len(t))
	for i, nt := range t {
		keys[i] = nt.Key
	}
	return keys
}
