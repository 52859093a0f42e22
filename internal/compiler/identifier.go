package compiler

import (
	"strings"
	"unicode"

	"github.com/lex00/wetwire-ecs-go/internal/config"
)

// ToIdentifier derives the logical ID prefix for a task name: every
// character that is not an ASCII letter or digit is dropped and the first
// remaining character is upper-cased. "my-task-1" becomes "Mytask1".
func ToIdentifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		if isAlnum(r) {
			b.WriteRune(r)
		}
	}
	id := b.String()
	if id == "" {
		return ""
	}
	return string(unicode.ToUpper(rune(id[0]))) + id[1:]
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// identifiers maps each task to its identifier, failing on an empty
// identifier or on two tasks that share one.
func identifiers(tasks []config.Task) ([]string, error) {
	ids := make([]string, len(tasks))
	owner := make(map[string]string, len(tasks))
	for i, task := range tasks {
		id := ToIdentifier(task.Name)
		if id == "" {
			return nil, &IdentifierError{Task: task.Name}
		}
		if first, ok := owner[id]; ok {
			return nil, &CollisionError{Identifier: id, First: first, Second: task.Name}
		}
		owner[id] = task.Name
		ids[i] = id
	}
	return ids, nil
}
