package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/t-hobson/trellis/internal/config"
	"github.com/t-hobson/trellis/internal/dispatch"
	"github.com/t-hobson/trellis/internal/errors"
	"github.com/t-hobson/trellis/internal/loader"
	"github.com/t-hobson/trellis/internal/logging"
	"github.com/t-hobson/trellis/internal/task"
)

// setup resolves config and a command-scoped logger. Callers own Close on
// the logger.
func setup(command string) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.NewLogger(cfg.Logging.Dir, logging.ParseLevel(cfg.Logging.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}
	return cfg, log.WithCommand(command), nil
}

// loadForest loads the task directory named by the config.
func loadForest(cfg *config.Config) (*loader.Result, error) {
	return loader.Load(cfg.Paths.TaskDir)
}

// jsonOutput reports whether the global --json flag was set.
func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// addDispatchFlags registers the shared ranking flags on a command.
// Both next and dispatch carry them, so they are plain flags rather than
// viper bindings; viper keys can only be bound once.
func addDispatchFlags(cmd *cobra.Command) {
	cmd.Flags().Int("count", 0, "number of candidates to return (default from config)")
	cmd.Flags().String("executor", "", "preferred executor tier (fast, standard, deep)")
	cmd.Flags().Bool("include-blocked", false, "admit tasks carrying a blocked reason")
	cmd.Flags().Bool("idea", false, "treat idea-state tasks as ready")
}

// dispatchOptions builds selector options from config, overridden by any
// flags the caller actually set.
func dispatchOptions(cmd *cobra.Command, cfg *config.Config) (dispatch.Options, error) {
	opts := dispatch.Options{
		Count:          cfg.Dispatch.Count,
		Parallel:       cfg.Dispatch.Parallel,
		Executor:       task.ExecutorTier(cfg.Dispatch.Executor),
		IncludeBlocked: cfg.Dispatch.IncludeBlocked,
		IdeaAsReady:    cfg.Dispatch.IdeaAsReady,
	}

	if cmd.Flags().Changed("count") {
		opts.Count, _ = cmd.Flags().GetInt("count")
	}
	if cmd.Flags().Changed("executor") {
		tier, _ := cmd.Flags().GetString("executor")
		opts.Executor = task.ExecutorTier(tier)
	}
	if cmd.Flags().Changed("include-blocked") {
		opts.IncludeBlocked, _ = cmd.Flags().GetBool("include-blocked")
	}
	if cmd.Flags().Changed("idea") {
		opts.IdeaAsReady, _ = cmd.Flags().GetBool("idea")
	}

	if opts.Executor != "" && !opts.Executor.IsValid() {
		return opts, errors.NewValidationError("executor", fmt.Sprintf("unknown tier %q", opts.Executor))
	}
	return opts, nil
}
