package cmd

import (
	"github.com/spf13/cobra"
	"github.com/t-hobson/trellis/internal/dispatch"
	"github.com/t-hobson/trellis/internal/hierarchy"
	"github.com/t-hobson/trellis/internal/render"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the best ready tasks",
	Long: `Rank every eligible task (ready state, not blocked, all dependencies
done) and print the top candidates with their score breakdowns. No
conflict filtering is applied; see "trellis dispatch" for that.`,
	RunE: runNext,
}

func init() {
	rootCmd.AddCommand(nextCmd)
	addDispatchFlags(nextCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("next")
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	opts, err := dispatchOptions(cmd, cfg)
	if err != nil {
		return err
	}
	opts.Parallel = 0

	loaded, err := loadForest(cfg)
	if err != nil {
		return err
	}

	idx := hierarchy.Build(loaded.Docs)
	res := dispatch.Select(loaded.Docs, idx, opts)
	log.Info("ranked candidates", "eligible", len(res.Candidates), "returned", len(res.Selected))

	if jsonOutput(cmd) {
		render.NewJSON(cmd.OutOrStdout()).Dispatch(res)
	} else {
		render.NewHuman(cmd.OutOrStdout()).Dispatch(res)
	}
	return nil
}
