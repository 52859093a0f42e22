// Package schema provides structural validation of raw ECS configuration.
//
// Validation runs against a fixed JSON Schema before any resolution happens.
// It is structural only: unknown keys, wrong types and malformed task keys
// are rejected, cross-field consistency is left to the resolver and lint.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	wetwire "github.com/lex00/wetwire-ecs-go"
)

// TaskKeyPattern is the pattern every key under "tasks" must match.
const TaskKeyPattern = `^[a-zA-Z0-9-]+$`

// Error is returned when a document violates the configuration schema.
type Error struct {
	Violations []wetwire.SchemaError
}

func (e *Error) Error() string {
	if len(e.Violations) == 1 {
		return "invalid configuration: " + e.Violations[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid configuration: %d violations", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.Error())
	}
	return b.String()
}

var compiled = mustCompile(Document)

func mustCompile(doc string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("schema: compiling configuration schema: %v", err))
	}
	return s
}

// Validate checks a generic decoded document (as produced by a YAML or JSON
// decoder) against the configuration schema. It returns *Error listing every
// violation, sorted by path.
func Validate(doc any) error {
	result, err := compiled.Validate(gojsonschema.NewGoLoader(Normalize(doc)))
	if err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := toViolations(result.Errors())
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Path != violations[j].Path {
			return violations[i].Path < violations[j].Path
		}
		return violations[i].Constraint < violations[j].Constraint
	})
	return &Error{Violations: violations}
}

// toViolations converts gojsonschema errors into SchemaErrors. Errors that
// concern a named property (unknown key, bad task key) point at the property
// itself. The "pattern" error gojsonschema emits alongside a bad property
// name is folded into the property-name violation.
func toViolations(errs []gojsonschema.ResultError) []wetwire.SchemaError {
	badNames := make(map[string]bool)
	for _, e := range errs {
		if e.Type() == "invalid_property_name" {
			if prop, ok := e.Details()["property"].(string); ok {
				badNames[e.Field()+"\x00"+prop] = true
			}
		}
	}

	var out []wetwire.SchemaError
	for _, e := range errs {
		if e.Type() == "pattern" {
			if s, ok := e.Value().(string); ok && badNames[e.Field()+"\x00"+s] {
				continue
			}
		}

		path := e.Field()
		message := e.Description()
		switch e.Type() {
		case "additional_property_not_allowed":
			if prop, ok := e.Details()["property"].(string); ok {
				path = joinPath(path, prop)
				message = "unknown property"
			}
		case "invalid_property_name":
			if prop, ok := e.Details()["property"].(string); ok {
				path = joinPath(path, prop)
				message = fmt.Sprintf("key %q does not match %s", prop, TaskKeyPattern)
			}
		}

		out = append(out, wetwire.SchemaError{
			Path:       path,
			Constraint: e.Type(),
			Message:    message,
		})
	}
	return out
}

// rootPath is how gojsonschema names the document root.
const rootPath = "(root)"

func joinPath(parent, child string) string {
	switch {
	case parent == "" || parent == rootPath:
		return child
	case parent == child || strings.HasSuffix(parent, "."+child):
		return parent
	}
	return parent + "." + child
}

// Normalize converts YAML-decoded values into JSON-compatible ones: maps with
// non-string keys (map[any]any) become map[string]any. Other values are
// returned unchanged.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Normalize(elem)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[fmt.Sprint(k)] = Normalize(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Normalize(elem)
		}
		return out
	default:
		return v
	}
}
