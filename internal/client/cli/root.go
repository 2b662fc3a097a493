// Package cli is the command-line front-end: screens become subcommands, and
// the session state machine guards which of them are available.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notehq/notehub/internal/client/api"
	"github.com/notehq/notehub/internal/client/creds"
	"github.com/notehq/notehub/internal/client/session"
)

// App is the state shared between subcommands.
type App struct {
	ServerURL string
	AnonKey   string

	CredsPath string
	Creds     *creds.Credentials
	Session   *session.Session
}

// Client returns an API client carrying the saved bearer token, if any.
func (a *App) Client() *api.Client {
	c := api.NewClient(a.ServerURL, a.AnonKey)

	if a.Creds != nil && a.Creds.AccessToken != "" {
		c.SetToken(a.Creds.AccessToken)
	}

	return c
}

func (a *App) requireLoggedIn() error {
	if a.Session.State() == session.LoggedOut {
		return errors.New("not logged in: run `notes login` first")
	}

	return nil
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "notes",
		Short:         "notehub CLI client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, err := creds.DefaultPath()
			if err != nil {
				return err
			}
			app.CredsPath = path

			c, err := creds.Load(path)
			if err != nil {
				return err
			}
			app.Creds = c

			if c.AccessToken != "" {
				app.Session = session.Resume(c.UserID, c.Username, c.AccessToken)
			} else {
				app.Session = session.New()
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("NOTEHUB_SERVER", "http://127.0.0.1:8080"), "server base URL")
	cmd.PersistentFlags().StringVar(&app.AnonKey, "anon-key", envOr("NOTEHUB_ANON_KEY", "dev-anon-key"), "publishable anon key")

	cmd.AddCommand(
		NewSignUpCmd(app),
		NewLoginCmd(app),
		NewLogoutCmd(app),
		NewListCmd(app),
		NewCreateCmd(app),
		NewEditCmd(app),
		NewDeleteCmd(app),
		NewProfileCmd(app),
		NewPasswdCmd(app),
	)

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
