package cli

import (
	"github.com/spf13/cobra"

	"github.com/archive-lab/magpie/pkg/logger"
)

var relationshipsDryRun bool

var relationshipsCmd = &cobra.Command{
	Use:   "relationships",
	Short: "Rebuild the co-mention relationship graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		storage, pool, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		edges, err := newPipeline(storage).Relationships(ctx, relationshipsDryRun)
		if err != nil {
			return err
		}

		logger.Info("Relationship rebuild finished", "edges", edges, "dry_run", relationshipsDryRun)
		return nil
	},
}

func init() {
	relationshipsCmd.Flags().BoolVar(&relationshipsDryRun, "dry-run", false, "compute edges without persisting")
	rootCmd.AddCommand(relationshipsCmd)
}
