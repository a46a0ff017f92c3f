package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/t-hobson/trellis/internal/loader"
	"github.com/t-hobson/trellis/internal/render"
	"github.com/t-hobson/trellis/internal/task"
)

var listCmd = &cobra.Command{
	Use:       "list [bucket]",
	Short:     "List task documents",
	Long:      `List every loaded task grouped by lifecycle bucket, optionally limited to one bucket.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: loader.Buckets,
	RunE:      runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("list")
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	loaded, err := loadForest(cfg)
	if err != nil {
		return err
	}

	docs := loaded.Docs
	if len(args) == 1 {
		bucket := args[0]
		if !slices.Contains(loader.Buckets, bucket) {
			return fmt.Errorf("unknown bucket %q (valid: %v)", bucket, loader.Buckets)
		}
		var filtered []*task.Document
		for _, doc := range docs {
			if doc.Bucket == bucket {
				filtered = append(filtered, doc)
			}
		}
		docs = filtered
	}

	if jsonOutput(cmd) {
		render.NewJSON(cmd.OutOrStdout()).List(docs)
	} else {
		render.NewHuman(cmd.OutOrStdout()).List(docs)
	}

	for _, failure := range loaded.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", failure.File, failure.Reason)
	}
	return nil
}
