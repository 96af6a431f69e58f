package main

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/DataScyther/Neeva-AI-sub000/internal/app"
	"github.com/DataScyther/Neeva-AI-sub000/internal/config"
	"github.com/DataScyther/Neeva-AI-sub000/internal/logger"
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
	"github.com/DataScyther/Neeva-AI-sub000/internal/session"
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// rootOptions carries the persistent flags shared by every sub-command.
type rootOptions struct {
	userID string
	email  string
	name   string
	debug  bool
}

func (o *rootOptions) user() *model.User {
	return &model.User{ID: o.userID, Email: o.email, DisplayName: o.name}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "neeva",
		Short:         "Neeva wellness companion: chat, mood check-ins and exercises",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logger.ParseLevel(os.Getenv("NEEVA_LOG_LEVEL"))
			if opts.debug {
				level = zerolog.DebugLevel
			}
			log.Logger = logger.NewConsole(cmd.ErrOrStderr(), level)
			log.Debug().Str("user_id", opts.userID).Msg("debug logging enabled")
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.userID, "user", "u", getEnv("NEEVA_USER", "local"), "User id whose history is used")
	rootCmd.PersistentFlags().StringVar(&opts.email, "email", os.Getenv("NEEVA_EMAIL"), "Email of the user")
	rootCmd.PersistentFlags().StringVar(&opts.name, "name", os.Getenv("NEEVA_NAME"), "Display name used in greetings")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newChatCmd(opts))
	rootCmd.AddCommand(newMoodCmd(opts))
	rootCmd.AddCommand(newExercisesCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTokenCmd(opts))

	return rootCmd
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// openApp loads NEEVA_* configuration and assembles the components.
func openApp(ctx context.Context, l zerolog.Logger) (*app.App, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, l)
}

// withSession runs fn with the flag-selected user signed in and flushes the
// user's writes afterwards.
func withSession(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, sess *session.Session) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, log.Logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), app.CloseTimeout)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("close failed")
		}
	}()

	sess := a.NewSession()
	if err := sess.Start(ctx, opts.user()); err != nil {
		if ctx.Err() != nil {
			return err
		}
		log.Warn().Err(err).Str("user_id", opts.userID).Msg("history only partially loaded")
	}
	if err := fn(ctx, sess); err != nil {
		return err
	}
	return sess.Flush(ctx)
}
