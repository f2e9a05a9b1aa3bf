package cli

import (
	"github.com/spf13/cobra"

	"github.com/archive-lab/magpie/pkg/logger"
)

var consolidateDryRun bool

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Detect duplicate entities and merge them",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		storage, pool, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		result, resolution, err := newPipeline(storage).Consolidate(ctx, consolidateDryRun)
		if err != nil {
			return err
		}

		logger.Info("Consolidation finished",
			"candidates", resolution.Found,
			"resolved", resolution.Kept,
			"applied", result.Applied,
			"failed", result.Failed,
			"dry_run", consolidateDryRun,
		)
		return nil
	},
}

func init() {
	consolidateCmd.Flags().BoolVar(&consolidateDryRun, "dry-run", false, "detect and log merges without committing")
	rootCmd.AddCommand(consolidateCmd)
}
