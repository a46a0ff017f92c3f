package cmd

import (
	"github.com/spf13/cobra"
	"github.com/t-hobson/trellis/internal/dispatch"
	"github.com/t-hobson/trellis/internal/hierarchy"
	"github.com/t-hobson/trellis/internal/render"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Select conflict-free tasks for parallel execution",
	Long: `Rank every eligible task, then greedily pick a set whose touch globs
do not overlap, so the selected tasks can be worked in parallel without
stepping on the same files. Candidates passed over because of a conflict
are reported together with the tasks they collided with.`,
	RunE: runDispatch,
}

func init() {
	rootCmd.AddCommand(dispatchCmd)
	addDispatchFlags(dispatchCmd)
	dispatchCmd.Flags().IntP("parallel", "p", 0, "maximum parallel task count (default from config)")
}

func runDispatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("dispatch")
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	opts, err := dispatchOptions(cmd, cfg)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("parallel") {
		opts.Parallel, _ = cmd.Flags().GetInt("parallel")
	}
	if opts.Parallel <= 0 {
		// dispatch without a parallel count degenerates to next's top-N,
		// but conflict packing is the point of this command.
		opts.Parallel = opts.Count
	}

	loaded, err := loadForest(cfg)
	if err != nil {
		return err
	}

	idx := hierarchy.Build(loaded.Docs)
	res := dispatch.Select(loaded.Docs, idx, opts)
	log.Info("dispatch selection",
		"eligible", len(res.Candidates),
		"selected", len(res.Selected),
		"skipped", len(res.Skipped),
	)

	if jsonOutput(cmd) {
		render.NewJSON(cmd.OutOrStdout()).Dispatch(res)
	} else {
		render.NewHuman(cmd.OutOrStdout()).Dispatch(res)
	}
	return nil
}
