package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/t-hobson/trellis/internal/event"
	"github.com/t-hobson/trellis/internal/render"
	"github.com/t-hobson/trellis/internal/validate"
	"github.com/t-hobson/trellis/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate on every change",
	Long:  `Watch the task directory and re-run validation after each debounced burst of file changes. Stop with ctrl-c.`,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("watch")
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	bus := event.NewBus()
	human := render.NewHuman(cmd.OutOrStdout())
	human.Quiet = true
	human.Attach(bus)

	runner := validate.NewRunner(validate.Options{
		Workers:         cfg.Validate.Workers,
		MinFilesForPool: cfg.Validate.MinFilesForPool,
		Strict:          cfg.Validate.Strict,
	}, bus, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	revalidate := func() {
		loaded, err := loadForest(cfg)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "load: %v\n", err)
			return
		}
		if _, err := runner.Run(ctx, loaded); err != nil && ctx.Err() == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "validate: %v\n", err)
		}
	}

	// One pass up front so the first output does not wait for a change.
	revalidate()

	w, err := watch.New(cfg.Paths.TaskDir, log, revalidate)
	if err != nil {
		return err
	}
	log.Info("watching", "dir", cfg.Paths.TaskDir)
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
