package cli

import (
	"github.com/spf13/cobra"
)

var runDryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: consolidate, relationships, risk",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		storage, pool, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		_, err = newPipeline(storage).Run(ctx, runDryRun)
		return err
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "run every stage without committing")
	rootCmd.AddCommand(runCmd)
}
