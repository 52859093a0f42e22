package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/internal/differ"
)

type diffOptions struct {
	format      string
	ignoreOrder bool
	unified     bool
}

func newDiffCmd(a *app) *cobra.Command {
	var opts diffOptions

	cmd := &cobra.Command{
		Use:   "diff <config> <template>",
		Short: "Compare the compiled configuration with an existing template",
		Long: `Diff compiles the configuration and compares the result with a template
file, usually the output of an earlier build. Resources only in the file are
reported as removed, resources only in the compiled configuration as added.

Exits with status 1 when there are differences.

Examples:
    wetwire-ecs diff ecs.yml template.json
    wetwire-ecs diff ecs.yml template.yaml --unified
    wetwire-ecs diff ecs.yml template.json --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.OutOrStdout(), a, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.ignoreOrder, "ignore-order", false, "Ignore list element order")
	cmd.Flags().BoolVarP(&opts.unified, "unified", "u", false, "Print a unified diff of the YAML renderings")

	return cmd
}

func runDiff(w io.Writer, a *app, configPath, templatePath string, opts diffOptions) error {
	old, err := differ.LoadTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", templatePath, err)
	}

	s, err := a.build(configPath)
	if err != nil {
		return err
	}
	compiled := s.template
	if old.AWSTemplateFormatVersion == "" {
		// Compare a fragment with a fragment.
		compiled = &wetwire.Template{Resources: compiled.Resources, Outputs: compiled.Outputs}
	}

	result, err := differ.Compare(old, compiled, differ.Options{IgnoreOrder: opts.ignoreOrder})
	if err != nil {
		return err
	}

	if opts.unified {
		text, err := differ.Unified(templatePath, configPath, old, compiled)
		if err != nil {
			return err
		}
		fmt.Fprint(w, text)
	} else if err := outputDiffResult(w, result, opts.format); err != nil {
		return err
	}

	if !result.Empty() {
		return &exitError{code: 1}
	}
	return nil
}

func outputDiffResult(w io.Writer, result *differ.Result, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(wetwire.DiffResult{Diff: result.Diff, Summary: result.Summary}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		added := color.New(color.FgGreen)
		removed := color.New(color.FgRed)
		modified := color.New(color.FgYellow)

		for _, e := range result.Diff.Added {
			added.Fprintf(w, "+ %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Removed {
			removed.Fprintf(w, "- %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Modified {
			modified.Fprintf(w, "~ %s (%s)\n", e.Resource, e.Type)
			for _, change := range e.Changes {
				fmt.Fprintf(w, "    %s\n", change)
			}
		}
		fmt.Fprintln(w, differ.Summary(result))

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
