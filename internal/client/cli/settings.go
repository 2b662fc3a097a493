package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notehq/notehub/internal/client/creds"
	"github.com/notehq/notehub/internal/client/session"
)

func NewProfileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the account profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLoggedIn(); err != nil {
				return err
			}

			if err := app.Session.Apply(session.OpenSettings{}); err != nil {
				return err
			}

			p, err := app.Client().Profile()
			if err != nil {
				return err
			}

			if err := app.Session.Apply(session.CloseSettings{}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "username: %s\n", p.Username)
			fmt.Fprintf(out, "email:    %s\n", p.Email)
			fmt.Fprintf(out, "since:    %s\n", p.CreatedAt.Format("2006-01-02"))
			return nil
		},
	}
}

func NewPasswdCmd(app *App) *cobra.Command {
	var newPassword string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLoggedIn(); err != nil {
				return err
			}

			if len(newPassword) < 6 {
				return errors.New("password must be at least 6 characters")
			}

			if err := app.Session.Apply(session.OpenSettings{}); err != nil {
				return err
			}

			if err := app.Client().ChangePassword(newPassword); err != nil {
				return err
			}

			// old tokens are dead after a password change, so drop the session
			_ = app.Session.Apply(session.CloseSettings{})
			_ = app.Session.Apply(session.LogOut{})

			if err := creds.Clear(app.CredsPath); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "password changed, please log in again")
			return nil
		},
	}

	cmd.Flags().StringVar(&newPassword, "new-password", "", "new password (min 6 characters)")
	cmd.MarkFlagRequired("new-password")

	return cmd
}
