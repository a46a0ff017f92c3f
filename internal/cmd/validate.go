package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/t-hobson/trellis/internal/event"
	"github.com/t-hobson/trellis/internal/render"
	"github.com/t-hobson/trellis/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the task forest",
	Long: `Check every task document against the per-document rules (schema,
enums, required sections, filename conventions) and the whole forest
against the cross-document rules (duplicate ids, dangling references,
hierarchy depth and cycles, done-parent consistency).

Exits non-zero when any error is found. With --strict, warnings count
as errors.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("strict", false, "promote warnings to errors")
	validateCmd.Flags().Int("workers", 0, "validation worker pool size (0 = one per CPU)")
	validateCmd.Flags().BoolP("quiet", "q", false, "only print files with findings")

	_ = viper.BindPFlag("validate.strict", validateCmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("validate.workers", validateCmd.Flags().Lookup("workers"))
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("validate")
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	loaded, err := loadForest(cfg)
	if err != nil {
		return err
	}

	bus := event.NewBus()
	if jsonOutput(cmd) {
		render.NewJSON(cmd.OutOrStdout()).Attach(bus)
	} else {
		human := render.NewHuman(cmd.OutOrStdout())
		human.Quiet, _ = cmd.Flags().GetBool("quiet")
		human.Attach(bus)
	}

	runner := validate.NewRunner(validate.Options{
		Workers:         cfg.Validate.Workers,
		MinFilesForPool: cfg.Validate.MinFilesForPool,
		Strict:          cfg.Validate.Strict,
	}, bus, log)

	summary, err := runner.Run(cmd.Context(), loaded)
	if err != nil {
		return err
	}
	if !summary.OK {
		return fmt.Errorf("validation failed: %d errors", summary.Errors)
	}
	return nil
}
