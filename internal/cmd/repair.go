package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/t-hobson/trellis/internal/repair"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Normalize filenames and bucket placement",
	Long: `Rename every task file to the canonical <id>.md and move it into the
bucket directory matching its status. File content is never modified.
Moves go through git when the directory is a repository so history
follows the rename.`,
	RunE: runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
	repairCmd.Flags().BoolP("dry-run", "n", false, "plan moves without applying them")
}

func runRepair(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("repair")
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	res, err := repair.Run(cfg.Paths.TaskDir, repair.Options{DryRun: dryRun}, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(res.Moves) == 0 {
		fmt.Fprintln(out, "nothing to repair")
		return nil
	}
	for _, mv := range res.Moves {
		verb := "moved"
		if dryRun {
			verb = "would move"
		}
		fmt.Fprintf(out, "%s %s -> %s (%s)\n", verb, mv.From, mv.To, strings.Join(mv.Reasons, ", "))
	}
	for _, mv := range res.Skipped {
		fmt.Fprintf(out, "skipped %s: target %s already exists\n", mv.From, mv.To)
	}
	if !dryRun {
		fmt.Fprintf(out, "applied %d of %d moves\n", res.Applied, len(res.Moves))
	}
	return nil
}
