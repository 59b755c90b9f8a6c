package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"landval/internal/devtoken"
	"landval/internal/services/auth"
)

func loginCmd() *cobra.Command {
	var (
		password      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in with username and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(cmd, password, passwordStdin)
			if err != nil {
				return err
			}
			sess, err := appCtx.Auth.PasswordLogin(cmd.Context(), args[0], pw)
			if err != nil {
				return errors.New(auth.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", sess.User.Username)
			return nil
		},
	}
	addPasswordFlags(cmd, &password, &passwordStdin)
	return cmd
}

// google-login --credential <id token> | --dev-email <email>
func googleLoginCmd() *cobra.Command {
	var credential, devEmail string
	cmd := &cobra.Command{
		Use:   "google-login",
		Short: "Log in with an identity-provider credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if devEmail != "" {
				credential = devtoken.Issue(devEmail, "", 5*time.Minute)
			}
			if credential == "" {
				return errors.New("one of --credential or --dev-email is required")
			}
			sess, err := appCtx.Auth.FederatedLogin(cmd.Context(), credential)
			if err != nil {
				return fmt.Errorf("security notice: %s", auth.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", sess.User.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&credential, "credential", "", "ID token issued by the identity provider")
	cmd.Flags().StringVar(&devEmail, "dev-email", "", "mint an unsigned dev ID token for this email (dev server only)")
	cmd.MarkFlagsMutuallyExclusive("credential", "dev-email")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx.Session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func addPasswordFlags(cmd *cobra.Command, password *string, fromStdin *bool) {
	cmd.Flags().StringVar(password, "password", "", "account password")
	cmd.Flags().BoolVar(fromStdin, "password-stdin", false, "read the password from the first line of stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
}

func resolvePassword(cmd *cobra.Command, flagValue string, fromStdin bool) (string, error) {
	if !fromStdin {
		return flagValue, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
