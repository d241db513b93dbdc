package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/config"
	"github.com/jengzang/safeguard-backend/internal/logger"
)

var (
	cfgFile string
	appCfg  *config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "safeguard",
	Short:         "SafeGuard backend",
	Long:          "Women safety backend: risk heatmap, SOS alerts, safety polls and legal assistant.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := logger.Init(cfg.Log.Level, zap.String("service", "safeguard")); err != nil {
			return err
		}
		appCfg = cfg
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logger.L().Error("Command failed", zap.Error(err))
		return fmt.Errorf("safeguard: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(geocodeCmd)
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() *config.Config {
	return appCfg
}
