package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DataScyther/Neeva-AI-sub000/internal/insights"
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
	"github.com/DataScyther/Neeva-AI-sub000/internal/session"
)

func newExercisesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exercises",
		Aliases: []string{"ex"},
		Short:   "Browse and complete wellness exercises",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the exercise catalog with your progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, sess *session.Session) error {
				out := cmd.OutOrStdout()
				exercises := sess.State().Exercises
				for _, ex := range exercises {
					mark := " "
					if ex.Completed {
						mark = "✓"
					}
					fmt.Fprintf(out, "[%s] %-16s %-28s %3d min  streak %d\n", mark, ex.ID, ex.Title, ex.Duration, ex.Streak)
				}
				sum := insights.Exercises(exercises)
				fmt.Fprintf(out, "%d of %d completed, total streak %d\n", sum.Completed, sum.Total, sum.TotalStreak)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "complete <id>",
		Short: "Mark an exercise as done and extend its streak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, sess *session.Session) error {
				ex, ok := sess.CompleteExercise(ctx, args[0])
				if !ok {
					if err := ctx.Err(); err != nil {
						return err
					}
					return fmt.Errorf("%w: unknown exercise %q", model.ErrValidation, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Completed %s. Streak: %d\n", ex.Title, ex.Streak)
				return nil
			})
		},
	})
	return cmd
}
