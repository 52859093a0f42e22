package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/internal/template"
)

type buildOptions struct {
	format   string
	output   string
	fragment bool
	report   bool
}

func newBuildCmd(a *app) *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build <config>",
		Short: "Generate CloudFormation template from ECS configuration",
		Long: `Build validates the configuration, compiles every task and writes the template.

Examples:
    wetwire-ecs build ecs.yml --images images.json
    wetwire-ecs build serverless.yml --key custom.ecs --fragment
    wetwire-ecs build ecs.yml -f yaml -o template.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.OutOrStdout(), a, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "Write only Resources and Outputs")
	cmd.Flags().BoolVar(&opts.report, "report", false, "Write a JSON build report instead of the template")

	return cmd
}

func runBuild(w io.Writer, a *app, path string, opts buildOptions) error {
	s, err := a.build(path)
	if opts.report {
		return outputBuildReport(w, s, err)
	}
	if err != nil {
		return err
	}
	a.logIssues(s.lint())
	return writeTemplate(w, a, s.template, opts)
}

// writeTemplate renders t to opts.output, or to w when no output file is
// set.
func writeTemplate(w io.Writer, a *app, t *wetwire.Template, opts buildOptions) error {
	data, err := render(t, opts.format, opts.fragment)
	if err != nil {
		return err
	}

	if opts.output == "" {
		fmt.Fprintln(w, string(data))
		return nil
	}
	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	a.log.Info("wrote template",
		zap.String("path", opts.output),
		zap.Int("resources", len(t.Resources)))
	return nil
}

// render serializes t in the requested format.
func render(t *wetwire.Template, format string, fragment bool) ([]byte, error) {
	switch format {
	case "json":
		if fragment {
			return template.FragmentJSON(t)
		}
		return template.ToJSON(t)
	case "yaml":
		if fragment {
			return template.FragmentYAML(t)
		}
		return template.ToYAML(t)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func outputBuildReport(w io.Writer, s *stages, buildErr error) error {
	result := wetwire.BuildResult{Success: buildErr == nil}
	if buildErr != nil {
		result.Errors = []string{buildErr.Error()}
	} else {
		result.Template = *s.template
		order, err := template.Order(s.template)
		if err != nil {
			return err
		}
		result.Resources = order
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))

	if !result.Success {
		return &exitError{code: 1}
	}
	return nil
}
