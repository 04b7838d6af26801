package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
	"github.com/yourusername/tg-channel-parser/internal/usecase"
)

const probeSample = 5

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe [channel...]",
		Short: "Check the session and read a few posts from each channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			client, err := a.mtprotoClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Connect(ctx); err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			ok, err := client.IsAuthorized(ctx)
			if err != nil {
				return fmt.Errorf("auth status: %w", err)
			}
			fmt.Fprintf(out, "authorized: %t\n", ok)
			if !ok {
				return nil
			}

			for _, name := range usecase.ValidateChannels(args) {
				ch, err := client.ResolveChannel(ctx, name)
				if err != nil {
					fmt.Fprintf(out, "%s: %v\n", name, err)
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", name, ch.DisplayName())
				err = client.IterMessages(ctx, ch, probeSample, func(m entity.ChannelMessage) bool {
					fmt.Fprintf(out, "  #%d %s %q\n", m.ID, m.Date.Format(entity.DateLayout), firstLine(m.Text))
					return true
				})
				if err != nil {
					fmt.Fprintf(out, "  read failed: %v\n", err)
				}
			}
			return nil
		},
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
