package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/DataScyther/Neeva-AI-sub000/internal/insights"
	"github.com/DataScyther/Neeva-AI-sub000/internal/model"
	"github.com/DataScyther/Neeva-AI-sub000/internal/session"
)

func newMoodCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Log and review mood check-ins",
	}
	cmd.AddCommand(newMoodLogCmd(opts))
	cmd.AddCommand(newMoodListCmd(opts))
	cmd.AddCommand(newMoodStatsCmd(opts))
	return cmd
}

func newMoodLogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "log <1-5> [note...]",
		Short: "Record how you feel right now",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mood, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: mood must be a number between %d and %d", model.ErrValidation, model.MinMood, model.MaxMood)
			}
			note := strings.Join(args[1:], " ")
			return withSession(cmd, opts, func(ctx context.Context, sess *session.Session) error {
				entry, err := sess.LogMood(ctx, mood, note)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged mood %d %s\n", entry.Mood, moodBar(entry.Mood))
				return nil
			})
		},
	}
}

func newMoodListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List mood check-ins, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, sess *session.Session) error {
				out := cmd.OutOrStdout()
				entries := sess.State().MoodEntries
				if len(entries) == 0 {
					fmt.Fprintln(out, "No check-ins yet.")
					return nil
				}
				for _, e := range entries {
					line := fmt.Sprintf("%s  %s (%d)", e.Timestamp.Local().Format("2006-01-02 15:04"), moodBar(e.Mood), e.Mood)
					if e.Note != "" {
						line += "  " + e.Note
					}
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
}

func newMoodStatsCmd(opts *rootOptions) *cobra.Command {
	var (
		tz     string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show average, distribution and check-in streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := time.Local
			if tz != "" {
				l, err := time.LoadLocation(tz)
				if err != nil {
					return fmt.Errorf("unknown time zone %q: %w", tz, err)
				}
				loc = l
			}
			return withSession(cmd, opts, func(ctx context.Context, sess *session.Session) error {
				stats := insights.MoodStats(sess.State().MoodEntries, time.Now(), loc)
				out := cmd.OutOrStdout()
				if asJSON {
					return json.NewEncoder(out).Encode(stats)
				}
				fmt.Fprintf(out, "Check-ins: %d\nAverage:   %.1f\nStreak:    %d day(s)\n", stats.Total, stats.Average, stats.Streak)
				for m := model.MaxMood; m >= model.MinMood; m-- {
					fmt.Fprintf(out, "  %d %s %d\n", m, moodBar(m), stats.Distribution[m])
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "", "IANA time zone used to group days (default: local)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func moodBar(mood int) string {
	mood = model.ClampMood(mood)
	return strings.Repeat("●", mood) + strings.Repeat("○", model.MaxMood-mood)
}
