package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/spf13/cobra"
)

func newAuthCmd(a *app) *cobra.Command {
	var phone, password string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in the user account used for channel reads",
		Long:  "auth signs in with a login code and writes the session file. The phone number is taken from --phone, TG_PHONE or a prompt.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			if phone == "" {
				phone = a.cfg.Phone
			}
			if phone == "" {
				var err error
				if phone, err = prompt(in, out, "Phone number: "); err != nil {
					return err
				}
			}
			if password == "" {
				password = a.cfg.Password
			}

			client, err := a.mtprotoClient(cmd.Context())
			if err != nil {
				return err
			}

			code := auth.CodeAuthenticatorFunc(func(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
				return prompt(in, out, "Login code: ")
			})
			name, err := client.Login(cmd.Context(), phone, password, code)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintf(out, "Signed in as %s, session saved to %s\n", name, a.cfg.SessionFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "account phone number in international format")
	cmd.Flags().StringVar(&password, "password", "", "two-step verification password")
	return cmd
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("empty input")
	}
	return line, nil
}
