// Package lint provides advisory rules for ECS configuration.
//
// Lint runs after schema validation. It reports configurations that compile
// but probably do not do what the author meant, and problems the compiler
// would only report one at a time.
//
// Rules:
//
//	WEC001: Task declares both schedule and service (schedule wins)
//	WEC002: Task declares neither schedule nor service (runs as a service)
//	WEC003: Malformed or unexpected ARN
//	WEC004: Inconsistent service deployment bounds
//	WEC005: No image available for a task
//	WEC006: Task names that collide after identifier normalization
//	WEC007: No logGroupName (the log group is unnamed)
package lint

import (
	"github.com/lex00/wetwire-ecs-go/internal/config"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Issue is a single lint finding.
type Issue struct {
	Rule     string
	Severity string
	// Path is the dotted configuration path the issue refers to.
	Path    string
	Message string
}

// Input is what the rules inspect.
type Input struct {
	Raw *config.Raw
	// Images is the pushed image mapping. When nil, image rules are skipped.
	Images map[string]string
}

// Rule is the interface for lint rules.
type Rule interface {
	ID() string
	Description() string
	Check(in *Input) []Issue
}

// Result contains the outcome of linting.
type Result struct {
	// Success is false when any issue has error severity.
	Success bool
	Issues  []Issue
}

// Options configures the linter.
type Options struct {
	// Rules to enable. If empty, all rules are enabled.
	EnabledRules []string
}

// Lint runs the enabled rules over in.
func Lint(in *Input, opts Options) Result {
	if in == nil || in.Raw == nil {
		return Result{Success: true}
	}

	var issues []Issue
	for _, rule := range getRules(opts) {
		issues = append(issues, rule.Check(in)...)
	}

	success := true
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			success = false
			break
		}
	}
	return Result{Success: success, Issues: issues}
}

// AllRules returns every rule in ID order.
func AllRules() []Rule {
	return []Rule{
		AmbiguousTopology{},
		MissingTopology{},
		MalformedArn{},
		ServiceBounds{},
		MissingImage{},
		IdentifierCollision{},
		UnnamedLogGroup{},
	}
}

// getRules returns the rules to use based on options.
func getRules(opts Options) []Rule {
	all := AllRules()
	if len(opts.EnabledRules) == 0 {
		return all
	}

	enabled := make(map[string]bool)
	for _, id := range opts.EnabledRules {
		enabled[id] = true
	}

	var filtered []Rule
	for _, r := range all {
		if enabled[r.ID()] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
