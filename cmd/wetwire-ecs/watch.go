package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lex00/wetwire-ecs-go/internal/images"
)

// newWatchCmd creates the "watch" subcommand for rebuilding on changes.
func newWatchCmd(a *app) *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch <config>",
		Short: "Rebuild when the configuration changes",
		Long: `Watch monitors the configuration and image mapping files and rebuilds on
every change.

The watch command:
- Runs lint and build once at start
- Re-runs them whenever the configuration or image mapping is written
- Debounces rapid changes to avoid excessive rebuilds

Examples:
    wetwire-ecs watch ecs.yml -o template.json
    wetwire-ecs watch ecs.yml --images images.json --debounce 1s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd.OutOrStdout(), a, args[0], opts)
		},
	}

	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format for build: json or yaml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file for build (default: summary only)")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "Write only Resources and Outputs")

	return cmd
}

type watchOptions struct {
	debounce time.Duration
	format   string
	output   string
	fragment bool
}

// runWatch rebuilds on changes until ctx is cancelled.
func runWatch(ctx context.Context, w io.Writer, a *app, configPath string, opts watchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	imagesPath := a.imagesPath
	if imagesPath == "" {
		imagesPath = os.Getenv(images.EnvPath)
	}
	watched, err := watchedFiles(configPath, imagesPath)
	if err != nil {
		return err
	}
	// Editors often replace files, so watch the directories.
	dirs := make(map[string]bool)
	for file := range watched {
		dir := filepath.Dir(file)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
		fmt.Fprintf(w, "Watching: %s\n", dir)
	}

	fmt.Fprintln(w, "Running initial lint/build...")
	rebuild(w, a, configPath, opts)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	fmt.Fprintln(w, "\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, watched) {
				continue
			}
			a.log.Debug("change detected", zap.String("file", event.Name), zap.String("op", event.Op.String()))

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			fmt.Fprintf(w, "\n[%s] Change detected, rebuilding...\n", time.Now().Format("15:04:05"))
			rebuild(w, a, configPath, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch error", zap.Error(err))

		case <-ctx.Done():
			fmt.Fprintln(w, "\nStopping watch...")
			return nil
		}
	}
}

// watchedFiles returns the absolute paths whose changes trigger a rebuild.
func watchedFiles(configPath, imagesPath string) (map[string]bool, error) {
	files := make(map[string]bool)
	for _, p := range []string{configPath, imagesPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		files[abs] = true
	}
	return files, nil
}

// relevant reports whether event writes or creates one of the watched files.
func relevant(event fsnotify.Event, watched map[string]bool) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return watched[abs]
}

// rebuild runs lint and build once and reports the outcome. Errors are
// printed, never returned, so the watch loop keeps running.
func rebuild(w io.Writer, a *app, configPath string, opts watchOptions) {
	s, err := a.build(configPath)
	if err != nil {
		fmt.Fprintf(w, "Build error: %v\n", err)
		return
	}

	lintResult := s.lint()
	for _, issue := range lintResult.Issues {
		fmt.Fprintf(w, "%s: %s\n", issue.Severity, formatIssue(issue))
	}
	if !lintResult.Success {
		fmt.Fprintln(w, "Lint failed, skipping build")
		return
	}

	if opts.output == "" {
		fmt.Fprintln(w, "Build successful")
		fmt.Fprintf(w, "Generated %d resources\n", len(s.template.Resources))
		return
	}

	if err := writeTemplate(io.Discard, a, s.template, buildOptions{
		format:   opts.format,
		output:   opts.output,
		fragment: opts.fragment,
	}); err != nil {
		fmt.Fprintf(w, "Build error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Build successful, wrote %s\n", opts.output)
}
