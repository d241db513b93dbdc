package cli

import (
	"github.com/spf13/cobra"

	"github.com/jengzang/safeguard-backend/internal/logger"
	"github.com/jengzang/safeguard-backend/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		log := logger.L()
		defer log.Sync() //nolint:errcheck

		a, err := newApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.close(log)

		return server.Run(cmd.Context(), server.New(cfg.Server.Port, a.router), log)
	},
}
