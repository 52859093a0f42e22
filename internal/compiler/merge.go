package compiler

import (
	"sort"

	wetwire "github.com/lex00/wetwire-ecs-go"
)

// mergeGraphs combines partial graphs into a new one. A logical ID present
// in more than one input is an error.
func mergeGraphs(parts ...*wetwire.ResourceGraph) (*wetwire.ResourceGraph, error) {
	out := wetwire.NewResourceGraph()
	for _, part := range parts {
		if part == nil {
			continue
		}
		for _, name := range sortedKeys(part.Resources) {
			if _, exists := out.Resources[name]; exists {
				return nil, &DuplicateResourceError{LogicalID: name}
			}
			out.Resources[name] = part.Resources[name]
		}
		for name, output := range part.Outputs {
			if _, exists := out.Outputs[name]; exists {
				return nil, &DuplicateResourceError{LogicalID: name}
			}
			out.Outputs[name] = output
		}
	}
	return out, nil
}

func sortedKeys(m map[string]wetwire.Resource) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
