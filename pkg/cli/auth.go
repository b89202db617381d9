package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.safehomi.dev/homeadmin/internal/gateway"
)

const envPassword = "HOMEADMIN_PASSWORD"

func newLoginCommand(opts *Options) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as an admin and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				password = os.Getenv(envPassword)
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			env, err := rt.client.Login(cmd.Context(), email, password)
			if err != nil {
				rt.logger.Warn("login failed", zap.String("email", email), zap.Error(err))
				return fmt.Errorf("login failed: %s", gateway.UserMessage(err))
			}
			if !env.Success || env.Data.Token == "" {
				msg := env.Message
				if msg == "" {
					msg = "no token returned"
				}
				return fmt.Errorf("login failed: %s", msg)
			}

			session, err := gateway.NewSession(env.Data.Token, email, rt.cfg.APIURL, time.Now())
			if err != nil {
				return err
			}
			if err := rt.sessions.Save(session); err != nil {
				return err
			}
			rt.logger.Info("logged in", zap.String("email", email), zap.Time("expires_at", session.ExpiresAt))

			if !opts.Quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
				if !session.ExpiresAt.IsZero() {
					fmt.Fprintf(cmd.OutOrStdout(), "Session expires %s\n", session.ExpiresAt.Local().Format(time.RFC1123))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (default $"+envPassword+", else prompt)")
	return cmd
}

func newLogoutCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.sessions.Clear(); err != nil {
				return err
			}
			rt.logger.Info("logged out")
			if !opts.Quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			}
			return nil
		},
	}
}
