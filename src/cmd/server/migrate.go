package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/api-sage/card-payment-engine/src/internal/config"
	"github.com/api-sage/card-payment-engine/src/internal/logger"
)

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply journal migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			if cfg.DBDriver == config.DriverNone {
				return fmt.Errorf("DB_DRIVER is not set, nothing to migrate")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			db, _, err := openJournal(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			logger.Info("journal migrations completed successfully", logger.Fields{"driver": cfg.DBDriver})
			return nil
		},
	}
}
