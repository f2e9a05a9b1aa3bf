package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent merge audit entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		storage, pool, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		entries, err := storage.ListAudit(ctx, auditLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSOURCE\tTARGET\tMENTIONS\tCONF\tMETHOD")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s (%d)\t%s (%d)\t%d\t%d\t%s\n",
				e.CreatedAt.Format("2006-01-02 15:04"),
				e.SourceName, e.SourceID,
				e.TargetName, e.TargetID,
				e.MentionsTransferred, e.Confidence, e.Method,
			)
		}
		return w.Flush()
	},
}

func init() {
	auditCmd.Flags().IntVar(&auditLimit, "limit", 50, "number of entries to show")
	rootCmd.AddCommand(auditCmd)
}
