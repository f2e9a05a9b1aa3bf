package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archive-lab/magpie/internal/config"
	"github.com/archive-lab/magpie/internal/util"
	"github.com/archive-lab/magpie/pkg/logger"
	"github.com/archive-lab/magpie/pkg/logger/console"
	"github.com/archive-lab/magpie/pkg/logger/zapfile"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "magpie",
	Short: "Entity consolidation and risk scoring for the document archive",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		util.LoadEnv()

		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		debug := cfg.Log.Debug || util.GetEnvBool("DEBUG", false)
		backends := []logger.Backend{
			console.NewConsoleLogger(console.ConsoleLoggerParams{Debug: debug}),
		}
		if cfg.Log.File != "" {
			backends = append(backends, zapfile.NewFileLogger(zapfile.FileLoggerParams{
				Path:  cfg.Log.File,
				Debug: debug,
			}))
		}
		logger.Init(backends...)
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./magpie.yaml)")
}
