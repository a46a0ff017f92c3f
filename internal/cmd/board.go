package cmd

import (
	"github.com/spf13/cobra"
	"github.com/t-hobson/trellis/internal/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Browse the task forest interactively",
	Long:  `Open a read-only terminal browser over the loaded forest: tasks grouped by bucket on the left, the selected document on the right.`,
	RunE:  runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("board")
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	loaded, err := loadForest(cfg)
	if err != nil {
		return err
	}
	log.Info("board opened", "docs", len(loaded.Docs))
	return tui.Run(loaded.Docs)
}
