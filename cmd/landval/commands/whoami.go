package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"landval/internal/services/session"
)

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the session user and token expiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}
			user, _ := appCtx.Session.User()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "username: %s\n", user.Username)
			fmt.Fprintf(out, "email:    %s\n", user.Email)

			if exp, ok := session.TokenExpiry(appCtx.Session.Token()); ok {
				fmt.Fprintf(out, "expires:  %s (in %s)\n",
					exp.Local().Format(time.RFC1123), time.Until(exp).Round(time.Second))
			} else {
				fmt.Fprintln(out, "expires:  unknown")
			}
			return nil
		},
	}
}
