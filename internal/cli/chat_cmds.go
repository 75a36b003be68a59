package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/taskdeck/internal/api"
	"github.com/spf13/cobra"
)

const chatStampLayout = "15:04"

func chatCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Demo chat room",
	}

	send := &cobra.Command{
		Use:   "send <message>",
		Short: "Post a chat message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.open(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			if _, err := a.restore(cmd.Context()); err != nil {
				return err
			}
			msg, err := a.chat.Send(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return errors.New(api.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent #%s\n", msg.ID)
			return nil
		},
	}

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "Show recent chat messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.open(cmd, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()
			if _, err := a.restore(cmd.Context()); err != nil {
				return err
			}
			msgs, err := a.chat.History(cmd.Context())
			if err != nil {
				return errors.New(api.Message(err))
			}
			if limit > 0 && len(msgs) > limit {
				msgs = msgs[len(msgs)-limit:]
			}
			out := cmd.OutOrStdout()
			if len(msgs) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("no messages yet"))
				return nil
			}
			for _, m := range msgs {
				who := m.UserName
				if who == "" {
					who = "user " + m.UserID.String()
				}
				stamp := "--:--"
				if !m.Timestamp.IsZero() {
					stamp = m.Timestamp.Local().Format(chatStampLayout)
				}
				fmt.Fprintf(out, "%s %s %s\n", mutedStyle.Render(stamp), headerStyle.Render(who+":"), m.Message)
			}
			return nil
		},
	}
	history.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last n messages")

	cmd.AddCommand(send, history)
	return cmd
}
