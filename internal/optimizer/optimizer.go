// Package optimizer suggests improvements to compiled ECS templates.
// It analyzes resources for security, cost, performance, and reliability improvements.
package optimizer

import (
	"fmt"
	"sort"

	wetwire "github.com/lex00/wetwire-ecs-go"
)

// Categories lists the valid category filters, in report order after "all".
var Categories = []string{"all", "security", "cost", "performance", "reliability"}

// Options configures the optimizer.
type Options struct {
	// Category filters suggestions: "all", "security", "cost", "performance", "reliability".
	// Empty means "all".
	Category string
}

// Result contains optimization suggestions.
type Result struct {
	Suggestions []wetwire.OptimizeSuggestion
	Summary     wetwire.OptimizeSummary
}

// ValidCategory reports whether category is a known filter.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Optimize analyzes the resources of t and returns suggestions sorted by
// resource and rule.
func Optimize(t *wetwire.Template, opts Options) (*Result, error) {
	if t == nil {
		return nil, fmt.Errorf("optimize: nil template")
	}
	category := opts.Category
	if category == "" {
		category = "all"
	}
	if !ValidCategory(category) {
		return nil, fmt.Errorf("invalid category: %s", category)
	}

	result := &Result{Suggestions: []wetwire.OptimizeSuggestion{}}
	for name, def := range t.Resources {
		result.Suggestions = append(result.Suggestions, analyzeResource(name, def, category)...)
	}
	sort.Slice(result.Suggestions, func(i, j int) bool {
		a, b := result.Suggestions[i], result.Suggestions[j]
		if a.Resource != b.Resource {
			return a.Resource < b.Resource
		}
		return a.Rule < b.Rule
	})

	result.Summary = calculateSummary(result.Suggestions)
	return result, nil
}

// analyzeResource applies optimization rules to a single resource.
func analyzeResource(name string, def wetwire.ResourceDef, category string) []wetwire.OptimizeSuggestion {
	var suggestions []wetwire.OptimizeSuggestion
	for _, rule := range getRulesForType(def.Type) {
		if category != "all" && rule.Category != category {
			continue
		}
		if s := rule.Check(def); s != nil {
			s.Resource = name
			s.Rule = rule.ID
			s.Category = rule.Category
			if s.Title == "" {
				s.Title = rule.Title
			}
			suggestions = append(suggestions, *s)
		}
	}
	return suggestions
}

// calculateSummary tallies suggestions by category.
func calculateSummary(suggestions []wetwire.OptimizeSuggestion) wetwire.OptimizeSummary {
	summary := wetwire.OptimizeSummary{}
	for _, s := range suggestions {
		switch s.Category {
		case "security":
			summary.Security++
		case "cost":
			summary.Cost++
		case "performance":
			summary.Performance++
		case "reliability":
			summary.Reliability++
		}
		summary.Total++
	}
	return summary
}

// Rule represents an optimization rule.
type Rule struct {
	ID       string
	Category string
	Title    string
	Check    func(def wetwire.ResourceDef) *wetwire.OptimizeSuggestion
}

// getRulesForType returns applicable rules for a resource type.
func getRulesForType(resourceType string) []Rule {
	var rules []Rule

	switch resourceType {
	case "AWS::ECS::Service":
		rules = append(rules, serviceRules...)
	case "AWS::ECS::TaskDefinition":
		rules = append(rules, taskDefinitionRules...)
	case "AWS::Events::Rule":
		rules = append(rules, scheduleRules...)
	case "AWS::IAM::Role":
		rules = append(rules, iamRules...)
	case "AWS::Logs::LogGroup":
		rules = append(rules, logGroupRules...)
	}

	rules = append(rules, genericRules...)
	return rules
}
