package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/internal/lint"
	"github.com/lex00/wetwire-ecs-go/internal/schema"
)

// newValidateCmd creates the "validate" subcommand, a dry run of build.
func newValidateCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Validate configuration without writing a template",
		Long: `Validate runs the whole build without writing output.

Checks performed:
  - Schema: the configuration has the expected structure and types
  - Compile: every task has an image and a unique identifier
  - Lint: likely mistakes are reported as warnings

Examples:
    wetwire-ecs validate ecs.yml
    wetwire-ecs validate ecs.yml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := validate(a, args[0])
			if err := outputValidateResult(cmd.OutOrStdout(), result, outputFormat); err != nil {
				return err
			}
			if !result.Success {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func validate(a *app, path string) wetwire.ValidateResult {
	var result wetwire.ValidateResult

	s, err := a.build(path)
	if err != nil {
		var schemaErr *schema.Error
		if errors.As(err, &schemaErr) {
			result.Schema = schemaErr.Violations
		} else {
			result.Errors = []string{err.Error()}
		}
	} else {
		result.Resources = len(s.template.Resources)
	}

	// Lint runs whenever the configuration loaded, compile failure or not.
	if s != nil && s.raw != nil {
		result.Tasks = len(s.raw.Tasks)
		for _, issue := range s.lint().Issues {
			msg := formatIssue(issue)
			if issue.Severity == lint.SeverityError {
				result.Errors = append(result.Errors, msg)
			} else {
				result.Warnings = append(result.Warnings, msg)
			}
		}
	}

	result.Success = err == nil && len(result.Errors) == 0
	return result
}

func formatIssue(issue lint.Issue) string {
	return fmt.Sprintf("%s: %s [%s]", issue.Path, issue.Message, issue.Rule)
}

func outputValidateResult(w io.Writer, result wetwire.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		warn := color.New(color.FgYellow)
		if result.Success {
			color.New(color.FgGreen).Fprintf(w, "Validation passed: %d tasks, %d resources OK\n", result.Tasks, result.Resources)
			for _, msg := range result.Warnings {
				warn.Fprintf(w, "  WARNING: %s\n", msg)
			}
			return nil
		}

		bad := color.New(color.FgRed)
		bad.Fprintln(w, "Validation FAILED:")
		for _, v := range result.Schema {
			bad.Fprintf(w, "  SCHEMA: %s\n", v.Error())
		}
		for _, msg := range result.Errors {
			bad.Fprintf(w, "  ERROR: %s\n", msg)
		}
		for _, msg := range result.Warnings {
			warn.Fprintf(w, "  WARNING: %s\n", msg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
