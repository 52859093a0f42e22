// Package template builds CloudFormation templates from compiled resource
// graphs.
package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/internal/serialize"
)

// FormatVersion is the only CloudFormation template format version.
const FormatVersion = "2010-09-09"

// Builder constructs a CloudFormation template from a resource graph.
type Builder struct {
	graph       *wetwire.ResourceGraph
	description string
}

// New creates a template builder for graph.
func New(graph *wetwire.ResourceGraph) *Builder {
	return &Builder{graph: graph}
}

// WithDescription sets the template Description.
func (b *Builder) WithDescription(description string) *Builder {
	b.description = description
	return b
}

// Build serializes every resource and assembles the template. It fails if
// the resources reference each other in a cycle.
func (b *Builder) Build() (*wetwire.Template, error) {
	template := &wetwire.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.description,
		Resources:                make(map[string]wetwire.ResourceDef, len(b.graph.Resources)),
		Outputs:                  make(map[string]wetwire.Output, len(b.graph.Outputs)),
	}

	for name, res := range b.graph.Resources {
		props, err := serialize.Resource(res)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}
		template.Resources[name] = wetwire.ResourceDef{
			Type:       res.ResourceType(),
			Properties: props,
		}
	}
	for name, out := range b.graph.Outputs {
		template.Outputs[name] = out
	}

	if _, err := Order(template); err != nil {
		return nil, err
	}
	return template, nil
}

// Dependencies returns, for every resource in t, the other resources it
// references through Ref, Fn::GetAtt, Fn::Sub or DependsOn.
func Dependencies(t *wetwire.Template) map[string][]string {
	deps := make(map[string][]string, len(t.Resources))
	for name, res := range t.Resources {
		seen := make(map[string]bool)
		var list []string
		add := func(ref string) {
			if ref == name || seen[ref] {
				return
			}
			if _, exists := t.Resources[ref]; !exists {
				return
			}
			seen[ref] = true
			list = append(list, ref)
		}
		for _, ref := range References(res.Properties) {
			add(ref)
		}
		for _, ref := range res.DependsOn {
			add(ref)
		}
		sort.Strings(list)
		deps[name] = list
	}
	return deps
}

// Order returns the resource names of t so that every resource comes after
// the resources it depends on. Ties are broken by name.
func Order(t *wetwire.Template) ([]string, error) {
	deps := Dependencies(t)

	dependents := make(map[string][]string, len(deps))
	inDegree := make(map[string]int, len(deps))
	for name := range deps {
		inDegree[name] = 0
	}
	for name, list := range deps {
		for _, dep := range list {
			dependents[dep] = append(dependents[dep], name)
			inDegree[name]++
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	result := make([]string, 0, len(deps))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, next := range dependents[node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(deps) {
		return nil, detectCycle(deps)
	}
	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func detectCycle(deps map[string][]string) error {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)

	var stack, cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		onPath[node] = true
		stack = append(stack, node)
		for _, dep := range deps[node] {
			if !visited[dep] {
				if findCycle(dep) {
					return true
				}
			} else if onPath[dep] {
				for i, name := range stack {
					if name == dep {
						cycle = append(append([]string{}, stack[i:]...), dep)
						break
					}
				}
				return true
			}
		}
		stack = stack[:len(stack)-1]
		onPath[node] = false
		return false
	}

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !visited[name] && findCycle(name) {
			break
		}
	}

	if len(cycle) > 0 {
		return fmt.Errorf("circular dependency detected: %s", strings.Join(cycle, " → "))
	}
	return errors.New("circular dependency detected")
}

// References returns the logical IDs referenced in a properties value,
// sorted and without duplicates. Pseudo parameters (AWS::Region) and
// variables defined in an Fn::Sub variable map are not references.
func References(v any) []string {
	seen := make(map[string]bool)
	collectRefs(v, seen)

	refs := make([]string, 0, len(seen))
	for name := range seen {
		refs = append(refs, name)
	}
	sort.Strings(refs)
	return refs
}

func collectRefs(v any, seen map[string]bool) {
	switch val := v.(type) {
	case map[string]any:
		if ref, ok := val["Ref"].(string); ok && len(val) == 1 {
			addRef(ref, seen)
			return
		}
		if getAtt, ok := val["Fn::GetAtt"]; ok && len(val) == 1 {
			switch ga := getAtt.(type) {
			case []any:
				if len(ga) > 0 {
					if name, ok := ga[0].(string); ok {
						addRef(name, seen)
					}
				}
			case string:
				addRef(strings.SplitN(ga, ".", 2)[0], seen)
			}
			return
		}
		if sub, ok := val["Fn::Sub"]; ok && len(val) == 1 {
			collectSubRefs(sub, seen)
			return
		}
		for _, elem := range val {
			collectRefs(elem, seen)
		}
	case []any:
		for _, elem := range val {
			collectRefs(elem, seen)
		}
	}
}

func collectSubRefs(sub any, seen map[string]bool) {
	switch s := sub.(type) {
	case string:
		for _, name := range subVariables(s) {
			addRef(name, seen)
		}
	case []any:
		if len(s) == 0 {
			return
		}
		str, _ := s[0].(string)
		var locals map[string]any
		if len(s) > 1 {
			locals, _ = s[1].(map[string]any)
		}
		for _, name := range subVariables(str) {
			if _, local := locals[name]; !local {
				addRef(name, seen)
			}
		}
		for _, value := range locals {
			collectRefs(value, seen)
		}
	}
}

// subVariables extracts the resource names from ${Name} and ${Name.Attr}
// placeholders. ${!Literal} escapes are skipped.
func subVariables(s string) []string {
	var names []string
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			return names
		}
		s = s[start+2:]
		end := strings.Index(s, "}")
		if end < 0 {
			return names
		}
		expr := s[:end]
		s = s[end+1:]
		if expr == "" || strings.HasPrefix(expr, "!") {
			continue
		}
		names = append(names, strings.SplitN(expr, ".", 2)[0])
	}
}

func addRef(name string, seen map[string]bool) {
	if name == "" || strings.HasPrefix(name, "AWS::") {
		return
	}
	seen[name] = true
}

// ToJSON serializes the template to indented JSON.
func ToJSON(t *wetwire.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *wetwire.Template) ([]byte, error) {
	return encodeYAML(t)
}

// Fragment is the part of a template that is merged into a larger one.
type Fragment struct {
	Resources map[string]wetwire.ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs   map[string]wetwire.Output      `json:"Outputs" yaml:"Outputs"`
}

// FragmentOf returns the Resources and Outputs of t.
func FragmentOf(t *wetwire.Template) Fragment {
	return Fragment{Resources: t.Resources, Outputs: t.Outputs}
}

// FragmentJSON serializes only the Resources and Outputs of t.
func FragmentJSON(t *wetwire.Template) ([]byte, error) {
	return json.MarshalIndent(FragmentOf(t), "", "  ")
}

// FragmentYAML serializes only the Resources and Outputs of t.
func FragmentYAML(t *wetwire.Template) ([]byte, error) {
	return encodeYAML(FragmentOf(t))
}

func encodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
