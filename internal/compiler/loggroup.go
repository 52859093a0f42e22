package compiler

import (
	wetwire "github.com/lex00/wetwire-ecs-go"
	"github.com/lex00/wetwire-ecs-go/intrinsics"
	"github.com/lex00/wetwire-ecs-go/internal/config"
	"github.com/lex00/wetwire-ecs-go/resources/logs"
)

func logGroupGraph(cfg *config.Config) *wetwire.ResourceGraph {
	g := wetwire.NewResourceGraph()

	lg := logs.LogGroup{Tags: intrinsics.Tags(cfg.Tags)}
	if cfg.LogGroupName != "" {
		lg.LogGroupName = cfg.LogGroupName
	}
	g.Resources[LogGroupID] = lg
	return g
}
