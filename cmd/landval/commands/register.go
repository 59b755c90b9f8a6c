package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"landval/internal/services/auth"
)

func registerCmd() *cobra.Command {
	var (
		email         string
		password      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account on the scoring service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(cmd, password, passwordStdin)
			if err != nil {
				return err
			}
			if err := appCtx.Auth.Register(cmd.Context(), args[0], email, pw); err != nil {
				return errors.New(auth.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile established successfully. Please authenticate.")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	addPasswordFlags(cmd, &password, &passwordStdin)
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
