package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sree-9523/RedBus/api"
	"github.com/sree-9523/RedBus/config"
	"github.com/sree-9523/RedBus/logger"
	"github.com/sree-9523/RedBus/storage"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves read-only queries over the stored bus routes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New()
		cfg := config.Load(log)

		store, err := storage.NewPostgresStore(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		defer store.Close()

		server := api.NewServer(store, logger.For(log, "api"))
		log.Info().Str("addr", cfg.APIAddr).Msg("serving route queries")
		if err := server.Router().Run(cfg.APIAddr); err != nil {
			return fmt.Errorf("api server stopped: %w", err)
		}
		return nil
	},
}
