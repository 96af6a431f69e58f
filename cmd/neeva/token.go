package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/DataScyther/Neeva-AI-sub000/internal/config"
	"github.com/DataScyther/Neeva-AI-sub000/internal/identity"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a sign-in token for the HTTP API",
		Long:  "Signs a token for --user with NEEVA_IDENTITY_SECRET. Intended for local development.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			if cfg.IdentitySecret == "" {
				return identity.ErrNoVerifier
			}
			v := identity.NewTokenVerifier(cfg.IdentitySecret, cfg.IdentityIssuer, nil)
			tok, err := v.Issue(*opts.user(), ttl)
			if err != nil {
				return err
			}
			log.Debug().Str("user_id", opts.userID).Dur("ttl", ttl).Msg("token issued")
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
