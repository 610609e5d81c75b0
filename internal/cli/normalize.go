package cli

import (
	"errors"
	"fmt"

	"dsa-tracker/internal/app"
	"dsa-tracker/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewNormalizeCmd rewrites stored questions of one partition in canonical shape.
func NewNormalizeCmd(configPath *string) *cobra.Command {
	var (
		userID string
		public bool
	)
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Rewrite stored questions into the per-language shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			if public == (userID != "") {
				return errors.New("pass exactly one of --user or --public")
			}
			part := domain.UserPartition(userID)
			if public {
				part = domain.PublicPartition()
			}

			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			stores, closeStores, err := openStores(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStores()

			service := app.NewTrackerService(stores, app.WithLogger(logger.Named("normalize")))
			n, err := service.Normalize(cmd.Context(), part)
			if err != nil {
				return err
			}
			logger.Info("normalize finished", zap.String("partition", part.Key()), zap.Int("written", n))
			fmt.Fprintf(cmd.OutOrStdout(), "rewrote %d questions in %s\n", n, part.Key())
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id whose questions to rewrite")
	cmd.Flags().BoolVar(&public, "public", false, "rewrite the public collection")
	return cmd
}
