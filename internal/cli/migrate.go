package cli

import (
	"fmt"

	"planner/internal/app"
	"planner/internal/config"
	"planner/internal/logger"

	"github.com/spf13/cobra"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, rootOpts, true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, rootOpts, false)
		},
	})

	return cmd
}

func runMigrate(cmd *cobra.Command, rootOpts *RootOptions, up bool) error {
	cfg, err := setup(rootOpts)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Repository.Type == config.RepositoryInMemory {
		return fmt.Errorf("repository.type %q has no schema to migrate", cfg.Repository.Type)
	}

	ctx := cmd.Context()
	storage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	direction := "up"
	if up {
		err = storage.Migrate(ctx)
	} else {
		direction = "down"
		err = storage.Down(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: done (%s)\n", direction, cfg.Repository.Type)
	return nil
}
