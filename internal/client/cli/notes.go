package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/notehq/notehub/internal/client/notesview"
	"github.com/notehq/notehub/internal/client/session"
	"github.com/notehq/notehub/internal/domain/note"
)

func NewListCmd(app *App) *cobra.Command {
	var tag, query, order string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, filtered and sorted locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLoggedIn(); err != nil {
				return err
			}

			notes, err := app.Client().ListNotes()
			if err != nil {
				return err
			}

			notes = notesview.Filter(notes, tag, query)
			notesview.Sort(notes, notesview.SortOrder(order))

			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no notes")
				return nil
			}

			for _, n := range notes {
				line := fmt.Sprintf("%s  %s  %s", n.ID, n.Deadline.Format("2006-01-02 15:04"), n.Title)

				if len(n.Tags) > 0 {
					line += "  [" + strings.Join(n.Tags, ",") + "]"
				}

				fmt.Fprintln(cmd.OutOrStdout(), line)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "only notes carrying this tag")
	cmd.Flags().StringVar(&query, "query", "", "substring match over title and text")
	cmd.Flags().StringVar(&order, "sort", string(notesview.ByDeadline), "sort order: deadline | created")

	return cmd
}

func NewCreateCmd(app *App) *cobra.Command {
	var title, text, deadline string
	var tags []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLoggedIn(); err != nil {
				return err
			}

			when, err := parseDeadline(deadline)
			if err != nil {
				return err
			}

			// a new note is an editor screen over an empty draft
			if err := app.Session.Apply(session.OpenEditor{}); err != nil {
				return err
			}

			n, err := app.Client().CreateNote(note.CreateNoteRequest{
				Title:    title,
				Text:     text,
				Tags:     tags,
				Deadline: when,
			})
			if err != nil {
				return err
			}

			if err := app.Session.Apply(session.CloseEditor{}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created note %s\n", n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&text, "text", "", "note body")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "comma separated tags")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline, RFC 3339 (e.g. 2025-01-01T23:59:59Z)")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("deadline")

	return cmd
}

func NewEditCmd(app *App) *cobra.Command {
	var title, text, deadline string
	var tags []string

	cmd := &cobra.Command{
		Use:   "edit <note-id>",
		Short: "Update a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLoggedIn(); err != nil {
				return err
			}

			when, err := parseDeadline(deadline)
			if err != nil {
				return err
			}

			if err := app.Session.Apply(session.OpenEditor{NoteID: args[0]}); err != nil {
				return err
			}

			req := note.UpdateNoteRequest{
				Title:    title,
				Deadline: when,
			}

			// only flags that were set are sent; the server keeps the rest
			if cmd.Flags().Changed("text") {
				req.Text = &text
			}

			if cmd.Flags().Changed("tags") {
				req.Tags = &tags
			}

			n, err := app.Client().UpdateNote(app.Session.EditingNoteID(), req)
			if err != nil {
				return err
			}

			if err := app.Session.Apply(session.CloseEditor{}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated note %s\n", n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&text, "text", "", "note body")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "comma separated tags")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline, RFC 3339")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("deadline")

	return cmd
}

func NewDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireLoggedIn(); err != nil {
				return err
			}

			if err := app.Client().DeleteNote(args[0]); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "note deleted")
			return nil
		},
	}
}

func parseDeadline(s string) (time.Time, error) {
	when, err := time.Parse(time.RFC3339, s)

	if err != nil {
		return time.Time{}, fmt.Errorf("invalid deadline %q: expected RFC 3339", s)
	}

	return when, nil
}
