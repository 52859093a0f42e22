package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lex00/wetwire-ecs-go/internal/schema"
)

// Load parses a YAML or JSON document, optionally descends into the dotted
// sub-path key (e.g. "custom.ecs"), validates the result against the
// configuration schema and decodes it into a Raw.
//
// An empty document, or a sub-path whose value is null, yields an empty Raw.
func Load(data []byte, key string) (*Raw, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return &Raw{}, nil
	}

	node, err := descend(root.Content[0], key)
	if err != nil {
		return nil, err
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return &Raw{}, nil
	}

	var generic any
	if err := node.Decode(&generic); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return nil, err
	}

	raw := &Raw{}
	if err := node.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	return raw, nil
}

// LoadFile reads and loads the configuration at path.
func LoadFile(path, key string) (*Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	raw, err := Load(data, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// descend walks a dotted path of mapping keys starting at node.
func descend(node *yaml.Node, key string) (*yaml.Node, error) {
	if key == "" {
		return node, nil
	}
	walked := make([]string, 0, 4)
	for _, part := range strings.Split(key, ".") {
		walked = append(walked, part)
		if node.Kind == yaml.AliasNode {
			node = node.Alias
		}
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("configuration key %q: %s is not a mapping", key, strings.Join(walked[:len(walked)-1], "."))
		}
		next := lookup(node, part)
		if next == nil {
			return nil, fmt.Errorf("configuration key %q: %q not found", key, strings.Join(walked, "."))
		}
		node = next
	}
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node, nil
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
