package cli

import (
	"os"
	"os/signal"
	"syscall"

	"planner/internal/app"
	"planner/internal/logger"

	"github.com/spf13/cobra"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(rootOpts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := app.New(cfg)
			if err := a.Init(ctx); err != nil {
				logger.Error("CLI: Init failed", err)
				return err
			}
			return a.Run(ctx)
		},
	}
}
