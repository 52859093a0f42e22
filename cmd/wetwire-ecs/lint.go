package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/internal/lint"
	"github.com/lex00/wetwire-ecs-go/internal/validation"
)

type lintOptions struct {
	format string
	cfn    bool
	rules  []string
}

func newLintCmd(a *app) *cobra.Command {
	var opts lintOptions

	cmd := &cobra.Command{
		Use:   "lint <config>",
		Short: "Check ECS configuration for likely mistakes",
		Long: `Lint checks a configuration for settings that compile but are probably wrong.

Rules:
    WEC001: Task declares both schedule and service
    WEC002: Task declares neither schedule nor service
    WEC003: Malformed or unexpected ARN
    WEC004: Inconsistent service deployment bounds
    WEC005: No image available for a task
    WEC006: Task names that collide after identifier normalization
    WEC007: No logGroupName

With --cfn the configuration is also compiled and the template is checked
with cfn-lint.

Examples:
    wetwire-ecs lint ecs.yml
    wetwire-ecs lint ecs.yml --images images.json --cfn
    wetwire-ecs lint ecs.yml --rule WEC003 --rule WEC004`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runLint(a, args[0], opts)
			if err != nil {
				return err
			}
			return outputLintResult(cmd.OutOrStdout(), result, opts.format)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.cfn, "cfn", false, "Also run cfn-lint over the compiled template")
	cmd.Flags().StringSliceVar(&opts.rules, "rule", nil, "Only run these rules (repeat or comma-separate)")

	return cmd
}

func runLint(a *app, path string, opts lintOptions) (wetwire.LintResult, error) {
	s, err := a.load(path)
	if err != nil {
		return wetwire.LintResult{}, err
	}

	lintResult := lint.Lint(&lint.Input{Raw: s.raw, Images: s.images}, lint.Options{EnabledRules: opts.rules})
	result := wetwire.LintResult{Success: lintResult.Success}
	for _, issue := range lintResult.Issues {
		result.Issues = append(result.Issues, wetwire.LintIssue{
			Path:     issue.Path,
			Severity: issue.Severity,
			Message:  issue.Message,
			Rule:     issue.Rule,
		})
	}

	if opts.cfn {
		cfnIssues, err := lintTemplate(a, path)
		if err != nil {
			return wetwire.LintResult{}, err
		}
		for _, issue := range cfnIssues {
			if issue.Severity == lint.SeverityError {
				result.Success = false
			}
		}
		result.Issues = append(result.Issues, cfnIssues...)
	}

	return result, nil
}

// lintTemplate compiles the configuration and runs cfn-lint over the
// result. A compile failure is reported as an issue.
func lintTemplate(a *app, path string) ([]wetwire.LintIssue, error) {
	s, err := a.build(path)
	if err != nil {
		return []wetwire.LintIssue{{
			Path:     "template",
			Severity: lint.SeverityError,
			Message:  err.Error(),
			Rule:     "build",
		}}, nil
	}

	cfn, err := validation.LintTemplate(s.template)
	if err != nil {
		return nil, err
	}

	var issues []wetwire.LintIssue
	add := func(severity string, messages []string) {
		for _, msg := range messages {
			issues = append(issues, wetwire.LintIssue{
				Path:     "template",
				Severity: severity,
				Message:  msg,
				Rule:     "cfn-lint",
			})
		}
	}
	add(lint.SeverityError, cfn.Errors)
	add(lint.SeverityWarning, cfn.Warnings)
	add(lint.SeverityInfo, cfn.Informational)
	return issues, nil
}

func outputLintResult(w io.Writer, result wetwire.LintResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Issues) == 0 {
			fmt.Fprintln(w, "No issues found.")
			return nil
		}

		for _, issue := range result.Issues {
			severityColor(issue.Severity).Fprintf(w, "%s", issue.Severity)
			fmt.Fprintf(w, ": %s: %s [%s]\n", issue.Path, issue.Message, issue.Rule)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		return &exitError{code: 2}
	}
	return nil
}

func severityColor(severity string) *color.Color {
	switch severity {
	case lint.SeverityError:
		return color.New(color.FgRed, color.Bold)
	case lint.SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
