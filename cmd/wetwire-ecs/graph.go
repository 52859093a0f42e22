package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-ecs-go/internal/graph"
)

func newGraphCmd(a *app) *cobra.Command {
	var (
		outputFormat  string
		clusterByType bool
	)

	cmd := &cobra.Command{
		Use:   "graph <config>",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph showing resource dependencies.

The output can be rendered with Graphviz:
    wetwire-ecs graph ecs.yml | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    wetwire-ecs graph ecs.yml -f mermaid

Examples:
    wetwire-ecs graph ecs.yml
    wetwire-ecs graph ecs.yml -c              # cluster by service
    wetwire-ecs graph ecs.yml -f mermaid      # mermaid format`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var graphFormat graph.Format
			switch outputFormat {
			case "dot":
				graphFormat = graph.FormatDOT
			case "mermaid":
				graphFormat = graph.FormatMermaid
			default:
				return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", outputFormat)
			}

			s, err := a.build(args[0])
			if err != nil {
				return err
			}

			gen := &graph.Generator{
				Format:        graphFormat,
				ClusterByType: clusterByType,
			}
			return gen.Generate(s.template, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&clusterByType, "cluster", "c", false, "Cluster resources by AWS service")

	return cmd
}
