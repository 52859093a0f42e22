package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/internal/template"
)

func newListCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list <config>",
		Short: "List generated resources",
		Long: `List compiles the configuration and displays every resource in dependency
order: a resource is listed after everything it references.

Examples:
    wetwire-ecs list ecs.yml
    wetwire-ecs list ecs.yml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.build(args[0])
			if err != nil {
				return err
			}
			result, err := listResources(s.template)
			if err != nil {
				return err
			}
			return outputListResult(cmd.OutOrStdout(), result, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func listResources(t *wetwire.Template) (wetwire.ListResult, error) {
	order, err := template.Order(t)
	if err != nil {
		return wetwire.ListResult{}, err
	}
	deps := template.Dependencies(t)

	result := wetwire.ListResult{
		Resources: make([]wetwire.ListResource, 0, len(order)),
	}
	for _, name := range order {
		result.Resources = append(result.Resources, wetwire.ListResource{
			Name:      name,
			Type:      t.Resources[name].Type,
			DependsOn: deps[name],
		})
	}
	return result, nil
}

func outputListResult(w io.Writer, result wetwire.ListResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Resources) == 0 {
			fmt.Fprintln(w, "No resources found.")
			return nil
		}

		fmt.Fprintf(w, "Resources (%d):\n\n", len(result.Resources))
		for _, res := range result.Resources {
			fmt.Fprintf(w, "  %s: %s", res.Name, res.Type)
			if len(res.DependsOn) > 0 {
				fmt.Fprintf(w, " (depends on %s)", strings.Join(res.DependsOn, ", "))
			}
			fmt.Fprintln(w)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
