package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/wetwire-ecs-go/internal/config"
)

func load(t *testing.T, doc string) *config.Raw {
	t.Helper()
	raw, err := config.Load([]byte(doc), "")
	require.NoError(t, err)
	return raw
}

func check(t *testing.T, rule Rule, doc string, images map[string]string) []Issue {
	t.Helper()
	return rule.Check(&Input{Raw: load(t, doc), Images: images})
}

func TestAmbiguousTopology(t *testing.T) {
	issues := check(t, AmbiguousTopology{}, `
tasks:
  both:
    schedule: rate(1 hour)
    service: {}
  scheduled:
    schedule: rate(1 hour)
  svc:
    service: {}
`, nil)

	require.Len(t, issues, 1)
	assert.Equal(t, "WEC001", issues[0].Rule)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "tasks.both", issues[0].Path)
	assert.Contains(t, issues[0].Message, "scheduled task")
}

func TestMissingTopology(t *testing.T) {
	issues := check(t, MissingTopology{}, `
tasks:
  bare: {}
  svc:
    service: {}
`, nil)

	require.Len(t, issues, 1)
	assert.Equal(t, "WEC002", issues[0].Rule)
	assert.Equal(t, SeverityInfo, issues[0].Severity)
	assert.Equal(t, "tasks.bare", issues[0].Path)
}

func TestMalformedArn(t *testing.T) {
	issues := check(t, MalformedArn{}, `
clusterArn: main-cluster
executionRoleArn: arn:aws:iam::123456789012:role/exec
taskRoleArn: arn:aws:ecs:eu-west-1:123456789012:cluster/main
iamManagedPolicies:
  - arn:aws:iam::aws:policy/ReadOnlyAccess
  - arn:aws:iam
tasks:
  worker:
    taskRoleArn: arn:aws:iam::123456789012:role/worker
    executionRoleArn: not-an-arn
`, nil)

	paths := make([]string, 0, len(issues))
	for _, issue := range issues {
		assert.Equal(t, "WEC003", issue.Rule)
		assert.Equal(t, SeverityError, issue.Severity)
		paths = append(paths, issue.Path)
	}
	assert.Equal(t, []string{
		"clusterArn",
		"taskRoleArn",
		"iamManagedPolicies.1",
		"tasks.worker.executionRoleArn",
	}, paths)
	assert.Contains(t, issues[1].Message, "expected iam")
}

func TestMalformedArn_Valid(t *testing.T) {
	issues := check(t, MalformedArn{}, `
clusterArn: arn:aws:ecs:eu-west-1:123456789012:cluster/main
taskRoleArn: arn:aws:iam::123456789012:role/task
`, nil)
	assert.Empty(t, issues)
}

func TestServiceBounds(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		paths []string
	}{
		{
			name:  "defaults",
			doc:   "tasks:\n  w:\n    service: {}\n",
			paths: nil,
		},
		{
			name:  "strict defaults",
			doc:   "tasks:\n  w:\n    service: {strict: true}\n",
			paths: nil,
		},
		{
			name:  "min healthy above max",
			doc:   "tasks:\n  w:\n    service: {maximumPercent: 100, minimumHealthyPercent: 150}\n",
			paths: []string{"tasks.w.service.minimumHealthyPercent"},
		},
		{
			name:  "strict with min healthy override",
			doc:   "tasks:\n  w:\n    service: {strict: true, minimumHealthyPercent: 200}\n",
			paths: []string{"tasks.w.service.minimumHealthyPercent"},
		},
		{
			name:  "negative count",
			doc:   "tasks:\n  w:\n    service: {desiredCount: -1}\n",
			paths: []string{"tasks.w.service.desiredCount"},
		},
		{
			name:  "scheduled tasks are skipped",
			doc:   "tasks:\n  w:\n    schedule: rate(1 hour)\n    service: {desiredCount: -1}\n",
			paths: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := check(t, ServiceBounds{}, tt.doc, nil)
			var paths []string
			for _, issue := range issues {
				assert.Equal(t, "WEC004", issue.Rule)
				paths = append(paths, issue.Path)
			}
			assert.Equal(t, tt.paths, paths)
		})
	}
}

func TestMissingImage(t *testing.T) {
	doc := `
tasks:
  worker: {}
  api:
    image: nginx:1.27
  report:
    name: nightly
`
	issues := check(t, MissingImage{}, doc, map[string]string{"worker": "repo/worker:1"})
	require.Len(t, issues, 1)
	assert.Equal(t, "WEC005", issues[0].Rule)
	assert.Equal(t, "tasks.report", issues[0].Path)
	assert.Contains(t, issues[0].Message, `"nightly"`)

	assert.Empty(t, check(t, MissingImage{}, doc, nil), "skipped without an image map")
}

func TestIdentifierCollision(t *testing.T) {
	issues := check(t, IdentifierCollision{}, `
tasks:
  my-task: {}
  mytask: {}
  other:
    name: "***"
  fine: {}
`, nil)

	require.Len(t, issues, 2)
	assert.Equal(t, "tasks.mytask", issues[0].Path)
	assert.Contains(t, issues[0].Message, `"my-task"`)
	assert.Contains(t, issues[0].Message, `"Mytask"`)
	assert.Equal(t, "tasks.other.name", issues[1].Path)
}

func TestUnnamedLogGroup(t *testing.T) {
	issues := check(t, UnnamedLogGroup{}, "tasks:\n  w: {}\n", nil)
	require.Len(t, issues, 1)
	assert.Equal(t, "logGroupName", issues[0].Path)

	assert.Empty(t, check(t, UnnamedLogGroup{}, "logGroupName: /ecs/w\ntasks:\n  w: {}\n", nil))
	assert.Empty(t, check(t, UnnamedLogGroup{}, "{}", nil))
}

func TestLint(t *testing.T) {
	in := &Input{Raw: load(t, `
logGroupName: /ecs/w
tasks:
  both:
    schedule: rate(1 hour)
    service: {}
`)}

	result := Lint(in, Options{})
	assert.True(t, result.Success, "warnings do not fail lint")
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "WEC001", result.Issues[0].Rule)

	in.Raw.ClusterArn = "bogus"
	result = Lint(in, Options{})
	assert.False(t, result.Success)
}

func TestLint_EnabledRules(t *testing.T) {
	in := &Input{Raw: load(t, "tasks:\n  bare: {}\n")}

	result := Lint(in, Options{EnabledRules: []string{"WEC007"}})
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "WEC007", result.Issues[0].Rule)
}

func TestLint_NilInput(t *testing.T) {
	assert.True(t, Lint(nil, Options{}).Success)
	assert.True(t, Lint(&Input{}, Options{}).Success)
}

func TestAllRules_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range AllRules() {
		assert.False(t, seen[r.ID()], "duplicate rule %s", r.ID())
		assert.NotEmpty(t, r.Description())
		seen[r.ID()] = true
	}
	assert.Len(t, seen, 7)
}
