package optimizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	wetwire "github.com/lex00/wetwire-ecs-go"
)

// MinRateMinutes is the shortest schedule interval not flagged as too
// frequent for a task that starts a container on every run.
const MinRateMinutes = 5

// serviceRules contains optimization rules for ECS services.
var serviceRules = []Rule{
	{
		ID:       "OPT-ECS-001",
		Category: "reliability",
		Title:    "Service runs a single task",
		Check: func(def wetwire.ResourceDef) *wetwire.OptimizeSuggestion {
			if count, ok := intProp(def.Properties, "DesiredCount"); !ok || count != 1 {
				return nil
			}
			return &wetwire.OptimizeSuggestion{
				Severity:    "medium",
				Description: "A service with one task is unavailable whenever that task or its host fails.",
				Suggestion:  "Set service.desiredCount to 2 or more unless the workload must be a singleton.",
			}
		},
	},
	{
		ID:       "OPT-ECS-002",
		Category: "reliability",
		Title:    "Deployments stop every task before replacing it",
		Check: func(def wetwire.ResourceDef) *wetwire.OptimizeSuggestion {
			deploy, _ := def.Properties["DeploymentConfiguration"].(map[string]any)
			minHealthy, ok := intProp(deploy, "MinimumHealthyPercent")
			if !ok || minHealthy != 0 {
				return nil
			}
			if count, _ := intProp(def.Properties, "DesiredCount"); count == 0 {
				return nil
			}
			return &wetwire.OptimizeSuggestion{
				Severity:    "low",
				Description: "MinimumHealthyPercent is 0, so each deployment has a window with no running tasks.",
				Suggestion:  "Drop service.strict or raise service.minimumHealthyPercent if the service must stay up during deploys.",
			}
		},
	},
}

// taskDefinitionRules contains optimization rules for task definitions.
var taskDefinitionRules = []Rule{
	{
		ID:       "OPT-ECS-101",
		Category: "performance",
		Title:    "Container has no hard memory limit",
		Check: func(def wetwire.ResourceDef) *wetwire.OptimizeSuggestion {
			var names []string
			for _, c := range containers(def) {
				if mem, _ := c["Memory"].(string); mem == "" {
					name, _ := c["Name"].(string)
					names = append(names, name)
				}
			}
			if len(names) == 0 {
				return nil
			}
			return &wetwire.OptimizeSuggestion{
				Severity:    "medium",
				Description: fmt.Sprintf("Container %s only reserves memory, so placement does not account for its real usage.", strings.Join(names, ", ")),
				Suggestion:  "Set memory globally or on the task.",
			}
		},
	},
	{
		ID:       "OPT-ECS-102",
		Category: "cost",
		Title:    "Container has no CPU units",
		Check: func(def wetwire.ResourceDef) *wetwire.OptimizeSuggestion {
			var names []string
			for _, c := range containers(def) {
				if cpu, ok := intProp(c, "Cpu"); !ok || cpu == 0 {
					name, _ := c["Name"].(string)
					names = append(names, name)
				}
			}
			if len(names) == 0 {
				return nil
			}
			return &wetwire.OptimizeSuggestion{
				Severity:    "low",
				Description: fmt.Sprintf("Container %s has no CPU reservation, which makes instance sizing guesswork.", strings.Join(names, ", ")),
				Suggestion:  "Set cpu globally or on the task.",
			}
		},
	},
}

// scheduleRules contains optimization rules for EventBridge schedules.
var scheduleRules = []Rule{
	{
		ID:       "OPT-EVT-001",
		Category: "cost",
		Title:    "Scheduled task runs very frequently",
		Check: func(def wetwire.ResourceDef) *wetwire.OptimizeSuggestion {
			expr, _ := def.Properties["ScheduleExpression"].(string)
			minutes, ok := rateMinutes(expr)
			if !ok || minutes >= MinRateMinutes {
				return nil
			}
			return &wetwire.OptimizeSuggestion{
				Severity:    "medium",
				Description: fmt.Sprintf("%s starts a new task every %d minute(s); container start-up dominates the run time.", expr, minutes),
				Suggestion:  "Run the work as a service with an internal loop, or lengthen the interval.",
			}
		},
	},
}

// iamRules contains optimization rules for IAM roles.
var iamRules = []Rule{
	{
		ID:       "OPT-IAM-001",
		Category: "security",
		Title:    "Policy allows every action",
		Check: func(def wetwire.ResourceDef) *wetwire.OptimizeSuggestion {
			if !anyAllowStatement(def, "Action") {
				return nil
			}
			return &wetwire.OptimizeSuggestion{
				Severity:    "high",
				Description: `An inline policy statement allows Action "*".`,
				Suggestion:  "List the specific actions the task needs in iamRoleStatements.",
			}
		},
	},
	{
		ID:       "OPT-IAM-002",
		Category: "security",
		Title:    "Policy applies to every resource",
		Check: func(def wetwire.ResourceDef) *wetwire.OptimizeSuggestion {
			if !anyAllowStatement(def, "Resource") {
				return nil
			}
			return &wetwire.OptimizeSuggestion{
				Severity:    "medium",
				Description: `An inline policy statement allows Resource "*".`,
				Suggestion:  "Scope the statement to the ARNs the task uses.",
			}
		},
	},
	{
		ID:       "OPT-IAM-003",
		Category: "security",
		Title:    "Role has administrator access",
		Check: func(def wetwire.ResourceDef) *wetwire.OptimizeSuggestion {
			for _, arn := range stringList(def.Properties["ManagedPolicyArns"]) {
				if strings.HasSuffix(arn, ":policy/AdministratorAccess") {
					return &wetwire.OptimizeSuggestion{
						Severity:    "high",
						Description: "AdministratorAccess is attached to the role.",
						Suggestion:  "Replace it with narrower managed policies or iamRoleStatements.",
					}
				}
			}
			return nil
		},
	},
}

// logGroupRules contains optimization rules for log groups.
var logGroupRules = []Rule{
	{
		ID:       "OPT-LOG-001",
		Category: "cost",
		Title:    "Log group keeps events forever",
		Check: func(def wetwire.ResourceDef) *wetwire.OptimizeSuggestion {
			if days, ok := intProp(def.Properties, "RetentionInDays"); ok && days > 0 {
				return nil
			}
			return &wetwire.OptimizeSuggestion{
				Severity:    "low",
				Description: "Without RetentionInDays, CloudWatch Logs stores container output indefinitely.",
				Suggestion:  "Set a retention period on the log group.",
			}
		},
	},
}

// genericRules apply to every resource that carries tags.
var genericRules = []Rule{
	{
		ID:       "OPT-GEN-001",
		Category: "cost",
		Title:    "Resource is untagged",
		Check: func(def wetwire.ResourceDef) *wetwire.OptimizeSuggestion {
			tags, ok := def.Properties["Tags"]
			if !ok {
				return nil
			}
			if list, _ := tags.([]any); len(list) > 0 {
				return nil
			}
			return &wetwire.OptimizeSuggestion{
				Severity:    "low",
				Description: "Untagged resources cannot be attributed in cost allocation reports.",
				Suggestion:  "Add tags globally or on the task.",
			}
		},
	},
}

var ratePattern = regexp.MustCompile(`^rate\((\d+) (minute|minutes|hour|hours|day|days)\)$`)

// rateMinutes returns the interval of a rate() expression in minutes.
func rateMinutes(expr string) (int, bool) {
	m := ratePattern.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	switch strings.TrimSuffix(m[2], "s") {
	case "hour":
		n *= 60
	case "day":
		n *= 60 * 24
	}
	return n, true
}

// intProp reads an integer property that may have been decoded as int or
// float64.
func intProp(props map[string]any, key string) (int, bool) {
	switch v := props[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func containers(def wetwire.ResourceDef) []map[string]any {
	list, _ := def.Properties["ContainerDefinitions"].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, c := range list {
		if m, ok := c.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// anyAllowStatement reports whether an Allow statement of an inline policy
// has "*" in field.
func anyAllowStatement(def wetwire.ResourceDef, field string) bool {
	policies, _ := def.Properties["Policies"].([]any)
	for _, p := range policies {
		policy, _ := p.(map[string]any)
		doc, _ := policy["PolicyDocument"].(map[string]any)
		statements, _ := doc["Statement"].([]any)
		for _, s := range statements {
			stmt, _ := s.(map[string]any)
			if effect, _ := stmt["Effect"].(string); effect != "Allow" {
				continue
			}
			for _, v := range stringList(stmt[field]) {
				if v == "*" {
					return true
				}
			}
		}
	}
	return false
}

// stringList accepts a string or a list and returns its string elements.
func stringList(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, elem := range val {
			if s, ok := elem.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
