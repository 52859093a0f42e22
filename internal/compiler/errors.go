package compiler

import (
	"fmt"

	"github.com/lex00/wetwire-ecs-go/internal/config"
)

// CollisionError is returned when two task names normalize to the same
// identifier and would produce the same logical IDs.
type CollisionError struct {
	Identifier string
	First      string
	Second     string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("tasks %q and %q both normalize to identifier %q", e.First, e.Second, e.Identifier)
}

// IdentifierError is returned when a task name has no alphanumeric
// characters to build an identifier from.
type IdentifierError struct {
	Task string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("task %q has no alphanumeric characters to derive an identifier from", e.Task)
}

// DuplicateResourceError is returned when two generators emit the same
// logical ID.
type DuplicateResourceError struct {
	LogicalID string
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("duplicate logical ID %q", e.LogicalID)
}

// MissingImageError is returned when no image can be determined for a task.
type MissingImageError struct {
	Task string
}

func (e *MissingImageError) Error() string {
	return fmt.Sprintf("no image for task %q: not in the image map and no image set on the task", e.Task)
}

// UnknownKindError is returned for a task whose Kind the compiler does not
// handle.
type UnknownKindError struct {
	Task string
	Kind config.Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("task %q: unknown kind %T", e.Task, e.Kind)
}
