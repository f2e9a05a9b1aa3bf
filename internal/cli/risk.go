package cli

import (
	"github.com/spf13/cobra"

	"github.com/archive-lab/magpie/pkg/logger"
)

var riskDryRun bool

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Recompute entity risk ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		storage, pool, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		distribution, err := newPipeline(storage).Risk(ctx, riskDryRun)
		if err != nil {
			return err
		}

		logger.Info("Risk recompute finished", "rating_distribution", distribution, "dry_run", riskDryRun)
		return nil
	},
}

func init() {
	riskCmd.Flags().BoolVar(&riskDryRun, "dry-run", false, "score and log without storing")
	rootCmd.AddCommand(riskCmd)
}
