// Package graph renders the resource dependencies of a template as DOT or
// Mermaid.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/internal/template"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from built templates.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByType groups resources by AWS service. Mermaid output is
	// never clustered.
	ClusterByType bool
}

// Generate creates a dependency graph for t and writes it to w.
func (g *Generator) Generate(t *wetwire.Template, w io.Writer) error {
	graph := g.buildGraph(t)

	var output string
	if g.Format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString is a convenience method that returns the graph as a string.
func (g *Generator) GenerateString(t *wetwire.Template) (string, error) {
	var sb strings.Builder
	if err := g.Generate(t, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(t *wetwire.Template) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	names := sortedNames(t)
	nodes := make(map[string]dot.Node, len(names))
	if g.ClusterByType && g.Format != FormatMermaid {
		addClusteredNodes(graph, t, names, nodes)
	} else {
		for _, name := range names {
			nodes[name] = addNode(graph, name, t.Resources[name].Type)
		}
	}

	// Nodes inside a cluster are not visible through graph.Node, so edges
	// use the handles collected above.
	deps := template.Dependencies(t)
	for _, name := range names {
		attrs := attributeRefs(t.Resources[name].Properties)
		for _, dep := range deps[name] {
			e := graph.Edge(nodes[name], nodes[dep])
			if attrs[dep] {
				e.Attr("color", "blue")
			}
		}
	}

	return graph
}

func addNode(graph *dot.Graph, name, cfType string) dot.Node {
	return graph.Node(name).Label(name + "\\n[" + cfType + "]")
}

// addClusteredNodes groups nodes by service. A service with a single
// resource gets no cluster.
func addClusteredNodes(graph *dot.Graph, t *wetwire.Template, names []string, nodes map[string]dot.Node) {
	byService := make(map[string][]string)
	var services []string
	for _, name := range names {
		service := extractService(t.Resources[name].Type)
		if _, ok := byService[service]; !ok {
			services = append(services, service)
		}
		byService[service] = append(byService[service], name)
	}
	sort.Strings(services)

	for _, service := range services {
		members := byService[service]
		if len(members) == 1 {
			nodes[members[0]] = addNode(graph, members[0], t.Resources[members[0]].Type)
			continue
		}
		cluster := graph.Subgraph("cluster_"+service, dot.ClusterOption{})
		cluster.Attr("label", service)
		cluster.Attr("style", "rounded")
		cluster.Attr("bgcolor", "lightyellow")
		for _, name := range members {
			nodes[name] = addNode(cluster, name, t.Resources[name].Type)
		}
	}
}

// extractService returns the service segment of a CloudFormation type.
// e.g., "AWS::ECS::Service" -> "ECS"
func extractService(cfType string) string {
	parts := strings.Split(cfType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	return "Other"
}

// attributeRefs returns the resources referenced through Fn::GetAtt.
func attributeRefs(v any) map[string]bool {
	refs := make(map[string]bool)
	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case map[string]any:
			if ga, ok := val["Fn::GetAtt"]; ok && len(val) == 1 {
				switch ga := ga.(type) {
				case []any:
					if len(ga) > 0 {
						if name, ok := ga[0].(string); ok {
							refs[name] = true
						}
					}
				case string:
					refs[strings.SplitN(ga, ".", 2)[0]] = true
				}
				return
			}
			for _, elem := range val {
				walk(elem)
			}
		case []any:
			for _, elem := range val {
				walk(elem)
			}
		}
	}
	walk(v)
	return refs
}

func sortedNames(t *wetwire.Template) []string {
	names := make([]string, 0, len(t.Resources))
	for name := range t.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
