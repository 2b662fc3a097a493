package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notehq/notehub/internal/client/creds"
	"github.com/notehq/notehub/internal/client/session"
)

func NewSignUpCmd(app *App) *cobra.Command {
	var email, password, username string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			// reject locally before any request goes out
			if len(password) < 6 {
				return errors.New("password must be at least 6 characters")
			}

			resp, err := app.Client().SignUp(email, password, username)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "account created for %s (%s)\n", resp.Username, resp.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (min 6 characters)")
	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("username")

	return cmd
}

func NewLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Client().Login(email, password)
			if err != nil {
				return err
			}

			// a stale saved session is replaced, not stacked
			if app.Session.State() != session.LoggedOut {
				_ = app.Session.Apply(session.LogOut{})
			}

			if err := app.Session.Apply(session.LogIn{
				UserID:   resp.UserID,
				Username: resp.Username,
				Token:    resp.AccessToken,
			}); err != nil {
				return err
			}

			app.Creds.AccessToken = resp.AccessToken
			app.Creds.UserID = resp.UserID
			app.Creds.Username = resp.Username

			if err := creds.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", resp.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Session.State() != session.LoggedOut {
				if err := app.Session.Apply(session.LogOut{}); err != nil {
					return err
				}
			}

			if err := creds.Clear(app.CredsPath); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
