package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/internal/compiler"
	"github.com/lex00/wetwire-ecs-go/internal/config"
	"github.com/lex00/wetwire-ecs-go/internal/images"
	"github.com/lex00/wetwire-ecs-go/internal/lint"
	"github.com/lex00/wetwire-ecs-go/internal/template"
)

// stages holds the output of every pipeline stage reached so far.
type stages struct {
	raw      *config.Raw
	cfg      *config.Config
	images   map[string]string
	graph    *wetwire.ResourceGraph
	template *wetwire.Template
}

// loadImages reads the image mapping from --images or the environment.
// It returns nil when neither names a file.
func (a *app) loadImages() (map[string]string, error) {
	path := a.imagesPath
	if path == "" {
		path = os.Getenv(images.EnvPath)
	}
	if path == "" {
		a.log.Debug("no image mapping configured")
		return nil, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		a.log.Warn("image mapping not found, tasks fall back to their literal image",
			zap.String("path", path))
	}
	m, err := images.Load(path)
	if err != nil {
		return nil, err
	}
	if err := images.Validate(m); err != nil {
		return nil, err
	}
	a.log.Debug("loaded image mapping", zap.String("path", path), zap.Int("images", len(m)))
	return m, nil
}

// load validates and resolves the configuration at path.
func (a *app) load(path string) (*stages, error) {
	raw, err := config.LoadFile(path, a.key)
	if err != nil {
		return nil, err
	}
	a.log.Debug("configuration valid", zap.String("path", path), zap.Int("tasks", len(raw.Tasks)))

	imgs, err := a.loadImages()
	if err != nil {
		return nil, err
	}

	cfg := config.Resolve(raw)
	a.log.Debug("configuration resolved", zap.Strings("tasks", raw.Tasks.Keys()))
	return &stages{raw: raw, cfg: cfg, images: imgs}, nil
}

// build runs the whole pipeline. On a compile or assembly error the stages
// reached so far are returned with the error.
func (a *app) build(path string) (*stages, error) {
	s, err := a.load(path)
	if err != nil {
		return nil, err
	}

	s.graph, err = compiler.Compile(s.images, s.cfg)
	if err != nil {
		return s, fmt.Errorf("compiling %s: %w", path, err)
	}
	a.log.Debug("compiled", zap.Int("resources", len(s.graph.Resources)))

	s.template, err = template.New(s.graph).Build()
	if err != nil {
		return s, fmt.Errorf("assembling template: %w", err)
	}
	return s, nil
}

// lint runs the lint rules over the loaded configuration.
func (s *stages) lint() lint.Result {
	return lint.Lint(&lint.Input{Raw: s.raw, Images: s.images}, lint.Options{})
}

// logIssues reports lint findings at warn level.
func (a *app) logIssues(result lint.Result) {
	for _, issue := range result.Issues {
		a.log.Warn(issue.Message,
			zap.String("rule", issue.Rule),
			zap.String("severity", issue.Severity),
			zap.String("path", issue.Path))
	}
}
