package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/DataScyther/Neeva-AI-sub000/internal/app"
	"github.com/DataScyther/Neeva-AI-sub000/internal/config"
	"github.com/DataScyther/Neeva-AI-sub000/internal/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for web and mobile clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			l := logger.New("neeva-server", logger.WithWriter(os.Stdout), logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
			l.Info().
				Str("llm_provider", cfg.LLMProvider).
				Str("store_driver", cfg.StoreDriver).
				Str("http_addr", cfg.HTTPAddr).
				Msg("Neeva server starting")

			ctx, stop := app.NewSignalContext(cmd.Context())
			defer stop()

			a, err := app.New(ctx, cfg, l)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), app.CloseTimeout)
				defer cancel()
				if err := a.Close(closeCtx); err != nil {
					l.Error().Err(err).Msg("close failed")
				}
			}()
			return a.Serve(ctx)
		},
	}
}
