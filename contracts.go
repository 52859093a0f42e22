// Package wetwire_ecs compiles declarative ECS workload configuration into
// CloudFormation resources.
//
// A configuration names global defaults and a set of tasks:
//
//	clusterArn: arn:aws:ecs:eu-west-1:123456789012:cluster/main
//	logGroupName: /ecs/workers
//	tasks:
//	  worker:
//	    service:
//	      desiredCount: 2
//	  nightly-report:
//	    schedule: cron(0 3 * * ? *)
//
// Each task compiles to a task definition plus either an ECS service or an
// EventBridge scheduled rule. The wetwire-ecs CLI reads the configuration
// and writes the resulting template fragment.
package wetwire_ecs

import (
	"encoding/json"
	"fmt"
)

// Resource is a typed CloudFormation resource declaration.
// All resource types (logs.LogGroup, ecs.Service, etc.) implement this interface.
type Resource interface {
	// ResourceType returns the CloudFormation type (e.g., "AWS::ECS::Service")
	ResourceType() string
}

// ResourceGraph is the compiler output: typed resources keyed by logical ID,
// plus outputs. Outputs is always present, even when empty.
type ResourceGraph struct {
	Resources map[string]Resource
	Outputs   map[string]Output
}

// NewResourceGraph returns an empty graph with both maps allocated.
func NewResourceGraph() *ResourceGraph {
	return &ResourceGraph{
		Resources: make(map[string]Resource),
		Outputs:   make(map[string]Output),
	}
}

// MarshalJSON serializes the graph as a template fragment:
//
//	{"Resources": {"Name": {"Type": "...", "Properties": {...}}}, "Outputs": {}}
func (g ResourceGraph) MarshalJSON() ([]byte, error) {
	resources := make(map[string]typedResource, len(g.Resources))
	for name, res := range g.Resources {
		resources[name] = typedResource{Type: res.ResourceType(), Properties: res}
	}
	outputs := g.Outputs
	if outputs == nil {
		outputs = map[string]Output{}
	}
	return json.Marshal(struct {
		Resources map[string]typedResource `json:"Resources"`
		Outputs   map[string]Output        `json:"Outputs"`
	}{resources, outputs})
}

type typedResource struct {
	Type       string   `json:"Type"`
	Properties Resource `json:"Properties"`
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion,omitempty" yaml:"AWSTemplateFormatVersion,omitempty"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs" yaml:"Outputs"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
}

// Output is a CloudFormation template output.
type Output struct {
	Description string        `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any           `json:"Value" yaml:"Value"`
	Export      *OutputExport `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// OutputExport names a cross-stack export.
type OutputExport struct {
	Name string `json:"Name" yaml:"Name"`
}

// SchemaError is a single structural violation in a raw configuration.
type SchemaError struct {
	// Path is the dotted location of the offending value (e.g. "tasks.worker.cpu").
	// The document root is "(root)".
	Path string `json:"path"`
	// Constraint names the violated rule (e.g. "invalid_type").
	Constraint string `json:"constraint"`
	// Message is a human readable description.
	Message string `json:"message"`
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Path, e.Message, e.Constraint)
}

// BuildResult is the JSON output from `wetwire-ecs build --format json --report`.
type BuildResult struct {
	Success   bool     `json:"success"`
	Template  Template `json:"template,omitempty"`
	Resources []string `json:"resources,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// LintResult is the JSON output from `wetwire-ecs lint`.
type LintResult struct {
	Success bool        `json:"success"`
	Issues  []LintIssue `json:"issues,omitempty"`
}

// LintIssue is a single linting issue.
type LintIssue struct {
	Path     string `json:"path"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Rule     string `json:"rule"`
}

// ValidateResult is the JSON output from `wetwire-ecs validate`.
type ValidateResult struct {
	Success   bool          `json:"success"`
	Tasks     int           `json:"tasks"`
	Resources int           `json:"resources"`
	Schema    []SchemaError `json:"schema,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
	Warnings  []string      `json:"warnings,omitempty"`
}

// ListResult is the JSON output from `wetwire-ecs list`.
type ListResult struct {
	Resources []ListResource `json:"resources"`
}

// ListResource is a single resource in the list output.
type ListResource struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	DependsOn []string `json:"dependsOn,omitempty"`
}

// DiffEntry is a single resource in a template comparison.
type DiffEntry struct {
	Resource string   `json:"resource"`
	Type     string   `json:"type"`
	Changes  []string `json:"changes,omitempty"`
}

// TemplateDiff lists the resources that differ between two templates.
type TemplateDiff struct {
	Added    []DiffEntry `json:"added,omitempty"`
	Removed  []DiffEntry `json:"removed,omitempty"`
	Modified []DiffEntry `json:"modified,omitempty"`
}

// DiffSummary counts the entries of a TemplateDiff.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Total    int `json:"total"`
}

// DiffResult is the JSON output from `wetwire-ecs diff`.
type DiffResult struct {
	Diff    TemplateDiff `json:"diff"`
	Summary DiffSummary  `json:"summary"`
}

// OptimizeSuggestion is a single improvement proposed for a resource.
type OptimizeSuggestion struct {
	Resource    string `json:"resource"`
	Rule        string `json:"rule"`
	Category    string `json:"category"` // "security", "cost", "performance", "reliability"
	Severity    string `json:"severity"` // "high", "medium", "low"
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// OptimizeSummary counts suggestions per category.
type OptimizeSummary struct {
	Security    int `json:"security"`
	Cost        int `json:"cost"`
	Performance int `json:"performance"`
	Reliability int `json:"reliability"`
	Total       int `json:"total"`
}

// OptimizeResult is the JSON output from `wetwire-ecs optimize`.
type OptimizeResult struct {
	Success       bool                 `json:"success"`
	Suggestions   []OptimizeSuggestion `json:"suggestions"`
	ResourceCount int                  `json:"resourceCount"`
	Summary       OptimizeSummary      `json:"summary"`
}
