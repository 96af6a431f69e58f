package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DataScyther/Neeva-AI-sub000/internal/session"
	"github.com/DataScyther/Neeva-AI-sub000/internal/tui"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	var once string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk with Neeva in the terminal",
		Long:  "Opens the interactive chat. With --once, sends a single message and prints the reply.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, sess *session.Session) error {
				if strings.TrimSpace(once) == "" {
					return tui.Run(ctx, sess)
				}
				reply, err := sess.SendChat(ctx, once)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&once, "once", "", "Send one message and print the reply")
	return cmd
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent chat messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, sess *session.Session) error {
				msgs := sess.State().ChatHistory
				if limit > 0 && len(msgs) > limit {
					msgs = msgs[len(msgs)-limit:]
				}
				out := cmd.OutOrStdout()
				for _, m := range msgs {
					who := "Neeva"
					if m.IsUser {
						who = "You"
					}
					fmt.Fprintf(out, "%s  %-5s  %s\n", m.Timestamp.Local().Format("2006-01-02 15:04"), who, m.Content)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of most recent messages to show (0 for all)")
	return cmd
}
