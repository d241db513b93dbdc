package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		log := logger.L()

		db, err := openDatabase(cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		log.Info("Database is up to date", zap.String("path", cfg.Database.Path))
		return nil
	},
}
