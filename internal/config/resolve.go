package config

// Config is a fully resolved configuration.
type Config struct {
	ClusterArn         string
	Memory             string
	Cpu                int
	Environment        map[string]string
	ExecutionRoleArn   string
	TaskRoleArn        string
	LogGroupName       string
	IamRoleStatements  []map[string]any
	IamManagedPolicies []string
	Tags               map[string]string
	Tasks              []Task
}

// Task is a task with every setting merged from its global default.
type Task struct {
	Key              string
	Name             string
	Image            string
	ClusterArn       string
	ExecutionRoleArn string
	TaskRoleArn      string
	Command          []string
	EntryPoint       []string
	Memory           string
	Cpu              int
	Environment      map[string]string
	Tags             map[string]string
	Kind             Kind
}

// defaults are the global values a task falls back to. It is passed by value
// and never modified.
type defaults struct {
	clusterArn       string
	memory           string
	cpu              int
	environment      map[string]string
	executionRoleArn string
	taskRoleArn      string
	tags             map[string]string
}

// Resolve merges global defaults into every task. It does not modify raw and
// the result shares no maps or slices with it.
func Resolve(raw *Raw) *Config {
	if raw == nil {
		raw = &Raw{}
	}

	d := defaults{
		clusterArn:       raw.ClusterArn,
		memory:           raw.Memory,
		cpu:              raw.Cpu,
		environment:      MergeMapping(raw.Environment, nil),
		executionRoleArn: raw.ExecutionRoleArn,
		taskRoleArn:      raw.TaskRoleArn,
		tags:             MergeMapping(raw.Tags, nil),
	}

	cfg := &Config{
		ClusterArn:         raw.ClusterArn,
		Memory:             raw.Memory,
		Cpu:                raw.Cpu,
		Environment:        MergeMapping(raw.Environment, nil),
		ExecutionRoleArn:   raw.ExecutionRoleArn,
		TaskRoleArn:        raw.TaskRoleArn,
		LogGroupName:       raw.LogGroupName,
		IamRoleStatements:  copyStatements(raw.IamRoleStatements),
		IamManagedPolicies: copyStrings(raw.IamManagedPolicies),
		Tags:               MergeMapping(raw.Tags, nil),
		Tasks:              make([]Task, 0, len(raw.Tasks)),
	}
	for _, nt := range raw.Tasks {
		cfg.Tasks = append(cfg.Tasks, resolveTask(d, nt.Key, nt.Task))
	}
	return cfg
}

func resolveTask(d defaults, key string, t RawTask) Task {
	return Task{
		Key:              key,
		Name:             firstString(t.Name, key),
		Image:            t.Image,
		ClusterArn:       d.clusterArn,
		ExecutionRoleArn: firstString(t.ExecutionRoleArn, d.executionRoleArn),
		TaskRoleArn:      firstString(t.TaskRoleArn, d.taskRoleArn),
		Command:          copyStrings(t.Command),
		EntryPoint:       copyStrings(t.EntryPoint),
		Memory:           firstString(t.Memory, d.memory),
		Cpu:              firstInt(t.Cpu, d.cpu),
		Environment:      MergeMapping(d.environment, t.Environment),
		Tags:             MergeMapping(d.tags, t.Tags),
		Kind:             resolveKind(t),
	}
}

// resolveKind picks the topology. A schedule wins over a service block; a
// task with neither runs as a service with all defaults.
func resolveKind(t RawTask) Kind {
	if t.Schedule != "" {
		return Scheduled{Expression: t.Schedule}
	}
	return ResolveService(t.Service)
}

// ResolveService applies service defaults to a service block, which may be
// nil. Explicit values, including zero, always win.
func ResolveService(s *RawService) Service {
	if s == nil {
		s = &RawService{}
	}
	svc := Service{
		DesiredCount:          DefaultDesiredCount,
		MaximumPercent:        DefaultMaximumPercent,
		MinimumHealthyPercent: DefaultMinimumHealthyPercent,
	}
	if s.Strict {
		svc.MaximumPercent = StrictMaximumPercent
		svc.MinimumHealthyPercent = StrictMinimumHealthyPercent
	}
	if s.DesiredCount != nil {
		svc.DesiredCount = *s.DesiredCount
	}
	if s.MaximumPercent != nil {
		svc.MaximumPercent = *s.MaximumPercent
	}
	if s.MinimumHealthyPercent != nil {
		svc.MinimumHealthyPercent = *s.MinimumHealthyPercent
	}
	return svc
}

// MergeMapping returns a new map holding global overlaid by override.
// The result is never nil.
func MergeMapping(global, override map[string]string) map[string]string {
	out := make(map[string]string, len(global)+len(override))
	for k, v := range global {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func firstString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func firstInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyStatements(in []map[string]any) []map[string]any {
	out := make([]map[string]any, len(in))
	for i, stmt := range in {
		out[i] = copyValue(stmt).(map[string]any)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = copyValue(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = copyValue(elem)
		}
		return out
	default:
		return v
	}
}
