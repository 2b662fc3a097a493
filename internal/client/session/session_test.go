package session_test

import (
	"errors"
	"testing"

	"github.com/notehq/notehub/internal/client/session"
)

func TestHappyPath(t *testing.T) {
	s := session.New()

	if s.State() != session.LoggedOut {
		t.Fatalf("fresh session should be LoggedOut, got %s", s.State())
	}

	steps := []struct {
		ev   session.Event
		want session.State
	}{
		{session.LogIn{UserID: "u1", Username: "alice", Token: "tok"}, session.Main},
		{session.OpenEditor{NoteID: "n1"}, session.Editing},
		{session.CloseEditor{}, session.Main},
		{session.OpenSettings{}, session.Settings},
		{session.CloseSettings{}, session.Main},
		{session.LogOut{}, session.LoggedOut},
	}

	for _, step := range steps {
		if err := s.Apply(step.ev); err != nil {
			t.Fatalf("apply %T: %v", step.ev, err)
		}

		if s.State() != step.want {
			t.Fatalf("after %T state = %s, want %s", step.ev, s.State(), step.want)
		}
	}

	if s.Token() != "" || s.UserID() != "" {
		t.Fatal("logout must clear the identity")
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup []session.Event
		ev    session.Event
	}{
		{name: "edit_while_logged_out", ev: session.OpenEditor{}},
		{name: "settings_while_logged_out", ev: session.OpenSettings{}},
		{name: "logout_twice", ev: session.LogOut{}},
		{
			name:  "double_login",
			setup: []session.Event{session.LogIn{UserID: "u1"}},
			ev:    session.LogIn{UserID: "u2"},
		},
		{
			name:  "settings_from_editor",
			setup: []session.Event{session.LogIn{UserID: "u1"}, session.OpenEditor{}},
			ev:    session.OpenSettings{},
		},
		{
			name:  "close_editor_from_main",
			setup: []session.Event{session.LogIn{UserID: "u1"}},
			ev:    session.CloseEditor{},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			s := session.New()

			for _, ev := range tt.setup {
				if err := s.Apply(ev); err != nil {
					t.Fatalf("setup apply %T: %v", ev, err)
				}
			}

			before := s.State()

			err := s.Apply(tt.ev)

			if !errors.Is(err, session.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}

			if s.State() != before {
				t.Fatalf("failed transition must not change state: %s -> %s", before, s.State())
			}
		})
	}
}

func TestEditorTracksNote(t *testing.T) {
	s := session.Resume("u1", "alice", "tok")

	if s.State() != session.Main {
		t.Fatalf("resumed session should be Main, got %s", s.State())
	}

	if err := s.Apply(session.OpenEditor{NoteID: "n42"}); err != nil {
		t.Fatalf("open editor: %v", err)
	}

	if s.EditingNoteID() != "n42" {
		t.Fatalf("editing note id = %q, want n42", s.EditingNoteID())
	}

	if err := s.Apply(session.CloseEditor{}); err != nil {
		t.Fatalf("close editor: %v", err)
	}

	if s.EditingNoteID() != "" {
		t.Fatal("editing note id should be cleared on close")
	}
}
