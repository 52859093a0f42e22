package config

// Kind is the deployment topology of a resolved task: either Scheduled or
// Service. The interface is sealed; consumers switch on the concrete type.
type Kind interface {
	kind() string
}

// Scheduled runs the task on an EventBridge schedule.
type Scheduled struct {
	Expression string
}

func (Scheduled) kind() string { return "scheduled" }

// Service runs the task as a long-lived ECS service.
type Service struct {
	DesiredCount          int
	MaximumPercent        int
	MinimumHealthyPercent int
}

func (Service) kind() string { return "service" }

// KindName returns "scheduled", "service", or "" for nil.
func KindName(k Kind) string {
	if k == nil {
		return ""
	}
	return k.kind()
}

// Service defaults.
const (
	DefaultDesiredCount = 1

	// Strict services never run more than DesiredCount tasks.
	StrictMaximumPercent        = 100
	StrictMinimumHealthyPercent = 0

	DefaultMaximumPercent        = 200
	DefaultMinimumHealthyPercent = 100
)
