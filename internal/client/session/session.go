// Package session models the client UI state as an explicit machine instead
// of ad hoc flags: {LoggedOut, Main, Editing, Settings} plus typed events.
package session

import (
	"errors"
	"fmt"
)

type State int

const (
	LoggedOut State = iota
	Main
	Editing
	Settings
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged_out"
	case Main:
		return "main"
	case Editing:
		return "editing"
	case Settings:
		return "settings"
	default:
		return "unknown"
	}
}

var ErrInvalidTransition = errors.New("invalid transition")

// Event is a typed transition trigger.
type Event interface {
	isEvent()
}

type LogIn struct {
	UserID   string
	Username string
	Token    string
}

type LogOut struct{}

// OpenEditor with an empty NoteID means a new note draft.
type OpenEditor struct {
	NoteID string
}

type CloseEditor struct{}

type OpenSettings struct{}

type CloseSettings struct{}

func (LogIn) isEvent()         {}
func (LogOut) isEvent()        {}
func (OpenEditor) isEvent()    {}
func (CloseEditor) isEvent()   {}
func (OpenSettings) isEvent()  {}
func (CloseSettings) isEvent() {}

// Session is the client-side state. Not safe for concurrent use; the client
// performs one action at a time.
type Session struct {
	state State

	userID   string
	username string
	token    string

	editingNoteID string
}

func New() *Session {
	return &Session{state: LoggedOut}
}

// Resume starts a session directly in Main from saved credentials.
func Resume(userID, username, token string) *Session {
	return &Session{
		state:    Main,
		userID:   userID,
		username: username,
		token:    token,
	}
}

func (s *Session) State() State     { return s.state }
func (s *Session) UserID() string   { return s.userID }
func (s *Session) Username() string { return s.username }
func (s *Session) Token() string    { return s.token }

// EditingNoteID is only meaningful in the Editing state.
func (s *Session) EditingNoteID() string { return s.editingNoteID }

// Apply runs one transition. Events not legal in the current state return
// ErrInvalidTransition and leave the session unchanged.
func (s *Session) Apply(ev Event) error {
	switch e := ev.(type) {
	case LogIn:
		if s.state != LoggedOut {
			return s.invalid(ev)
		}

		s.state = Main
		s.userID = e.UserID
		s.username = e.Username
		s.token = e.Token

	case LogOut:
		if s.state == LoggedOut {
			return s.invalid(ev)
		}

		*s = Session{state: LoggedOut}

	case OpenEditor:
		if s.state != Main {
			return s.invalid(ev)
		}

		s.state = Editing
		s.editingNoteID = e.NoteID

	case CloseEditor:
		if s.state != Editing {
			return s.invalid(ev)
		}

		s.state = Main
		s.editingNoteID = ""

	case OpenSettings:
		if s.state != Main {
			return s.invalid(ev)
		}

		s.state = Settings

	case CloseSettings:
		if s.state != Settings {
			return s.invalid(ev)
		}

		s.state = Main

	default:
		return fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}

	return nil
}

func (s *Session) invalid(ev Event) error {
	return fmt.Errorf("%w: %T in state %s", ErrInvalidTransition, ev, s.state)
}
