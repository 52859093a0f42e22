// Command wetwire-ecs compiles ECS task configuration into CloudFormation.
//
// Usage:
//
//	wetwire-ecs build ecs.yml          Generate CloudFormation template
//	wetwire-ecs validate ecs.yml       Check configuration
//	wetwire-ecs lint ecs.yml           Check for likely mistakes
//	wetwire-ecs version                Show version
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/lex00/wetwire-ecs-go/internal/compiler"
	"github.com/lex00/wetwire-ecs-go/internal/images"
	"github.com/lex00/wetwire-ecs-go/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCmd()
	code := handleError(os.Stderr, rootCmd.ExecuteContext(ctx))
	cancel()
	os.Exit(code)
}

// app holds the global flags and the logger shared by all subcommands.
type app struct {
	logLevel     string
	settingsFile string
	imagesPath   string
	key          string
	log          *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logLevel: "info", log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "wetwire-ecs",
		Short: "Generate CloudFormation templates for ECS tasks",
		Long: `wetwire-ecs compiles a declarative ECS task configuration into CloudFormation.

Describe shared defaults and a set of tasks:

    clusterArn: arn:aws:ecs:eu-west-1:123456789012:cluster/main
    tasks:
      worker:
        service:
          desiredCount: 2
      nightly-report:
        schedule: cron(0 3 * * ? *)

Then generate the template:

    wetwire-ecs build ecs.yml --images images.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applySettings(cmd, a.settingsFile); err != nil {
				return err
			}
			log, err := logging.New(a.logLevel)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", a.logLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(&a.settingsFile, "config", "", "CLI settings file (default: $"+envPrefix+"_CONFIG)")
	pf.StringVar(&a.imagesPath, "images", "", "Image mapping JSON file (default: $"+images.EnvPath+")")
	pf.StringVar(&a.key, "key", "", "Dotted path of the ECS configuration inside the file (e.g. custom.ecs)")

	cmd.AddCommand(
		newBuildCmd(a),
		newValidateCmd(a),
		newLintCmd(a),
		newListCmd(a),
		newGraphCmd(a),
		newDiffCmd(a),
		newOptimizeCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wetwire-ecs %s\n", getVersion())
		},
	}
}

// exitError ends the process with code after the command has already
// reported its findings.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// handleError prints err to w and returns the process exit code.
func handleError(w io.Writer, err error) int {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}

	message := err.Error()
	var missing *compiler.MissingImageError
	var invalid *images.InvalidError
	switch {
	case errors.As(err, &missing):
		message = fmt.Sprintf("%s\nHint: pass --images or set %s to the mapping written by the image push step.", err, images.EnvPath)
	case errors.As(err, &invalid):
		message = fmt.Sprintf("%s\nHint: image URIs must be valid references such as 123456789012.dkr.ecr.eu-west-1.amazonaws.com/worker:1.", err)
	}
	fmt.Fprintf(w, "Error: %s\n", message)
	return 1
}
