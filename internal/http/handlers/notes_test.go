package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notehq/notehub/internal/auth"
	"github.com/notehq/notehub/internal/domain/note"
	"github.com/notehq/notehub/internal/http/handlers"
	"github.com/notehq/notehub/internal/http/middlewares"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake repository implementation of handlers.NotesRepository

type fakeNotesRepo struct {
	listFn   func(ctx context.Context, userID string) ([]note.Note, error)
	createFn func(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error)
	updateFn func(ctx context.Context, userID, noteID string, req note.UpdateNoteRequest) (note.Note, error)
	deleteFn func(ctx context.Context, userID, noteID string) error

	called bool
}

func (f *fakeNotesRepo) ListByUser(ctx context.Context, userID string) ([]note.Note, error) {
	f.called = true
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}
	return []note.Note{}, nil
}

func (f *fakeNotesRepo) Create(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error) {
	f.called = true
	if f.createFn != nil {
		return f.createFn(ctx, userID, req)
	}
	return note.Note{}, nil
}

func (f *fakeNotesRepo) Update(ctx context.Context, userID, noteID string, req note.UpdateNoteRequest) (note.Note, error) {
	f.called = true
	if f.updateFn != nil {
		return f.updateFn(ctx, userID, noteID, req)
	}
	return note.Note{}, nil
}

func (f *fakeNotesRepo) Delete(ctx context.Context, userID, noteID string) error {
	f.called = true
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, noteID)
	}
	return nil
}

// Fake token verifier for the auth middleware

type fakeVerifier struct {
	identity auth.Identity
	err      error
}

func (f *fakeVerifier) VerifyToken(ctx context.Context, token string) (auth.Identity, error) {
	if f.err != nil {
		return auth.Identity{}, f.err
	}
	return f.identity, nil
}

// mounts the notes routes behind the auth middleware, like the real router

func setupNotesRouter(repo handlers.NotesRepository, verifier middlewares.TokenVerifier) *gin.Engine {
	r := gin.New()

	h := handlers.NewNotesHandler(repo)
	mw := middlewares.NewAuthMiddleware(verifier)

	protected := r.Group("/", mw.RequireAuth())
	protected.GET("/notes", h.ListNotes)
	protected.POST("/notes", h.CreateNote)
	protected.PUT("/notes/:id", h.UpdateNote)
	protected.DELETE("/notes/:id", h.DeleteNote)

	return r
}

func TestCreateNoteHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeNotesRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{
				"title": "Pay rent",
				"text": "before the 1st",
				"tags": ["bills"],
				"deadline": "2025-01-01T23:59:59.999Z"
			}`,
			repoSetUp: func(f *fakeNotesRepo) {
				f.createFn = func(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error) {
					return note.Note{
						ID:        "note-1",
						UserID:    userID,
						Title:     req.Title,
						Text:      req.Text,
						Tags:      req.Tags,
						Deadline:  req.Deadline,
						CreatedAt: now,
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_deadline",
			body:           `{"title": "Pay rent"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_title",
			body:           `{"deadline": "2025-01-01T23:59:59.999Z"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"title": "Pay rent", "deadline": "2025-01-01T23:59:59.999Z"}`,
			repoSetUp: func(f *fakeNotesRepo) {
				f.createFn = func(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error) {
					return note.Note{}, errors.New("store error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeNotesRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			r := setupNotesRouter(repo, &fakeVerifier{identity: auth.Identity{UserID: "u1"}})

			req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer whatever")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusBadRequest && repo.called {
				t.Fatal("repo must not be called on a validation failure")
			}
		})
	}
}

func TestListNotesHandler(t *testing.T) {
	repo := &fakeNotesRepo{
		listFn: func(ctx context.Context, userID string) ([]note.Note, error) {
			if userID != "u1" {
				t.Fatalf("handler must list for the authenticated user, got %q", userID)
			}
			return []note.Note{
				{ID: "n1", UserID: "u1", Title: "first"},
			}, nil
		},
	}

	r := setupNotesRouter(repo, &fakeVerifier{identity: auth.Identity{UserID: "u1"}})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer whatever")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Notes []note.Note `json:"notes"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if len(resp.Notes) != 1 || resp.Notes[0].ID != "n1" {
		t.Fatalf("unexpected notes payload: %+v", resp.Notes)
	}
}

func TestUpdateNoteHandlerNotFound(t *testing.T) {
	repo := &fakeNotesRepo{
		updateFn: func(ctx context.Context, userID, noteID string, req note.UpdateNoteRequest) (note.Note, error) {
			return note.Note{}, note.ErrNotFound
		},
	}

	r := setupNotesRouter(repo, &fakeVerifier{identity: auth.Identity{UserID: "u1"}})

	body := `{"title": "x", "deadline": "2025-01-01T23:59:59.999Z"}`
	req := httptest.NewRequest(http.MethodPut, "/notes/nope", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer whatever")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
	}
}

func TestDeleteNoteHandlerNotFound(t *testing.T) {
	repo := &fakeNotesRepo{
		deleteFn: func(ctx context.Context, userID, noteID string) error {
			return note.ErrNotFound
		},
	}

	r := setupNotesRouter(repo, &fakeVerifier{identity: auth.Identity{UserID: "u1"}})

	req := httptest.NewRequest(http.MethodDelete, "/notes/gone", nil)
	req.Header.Set("Authorization", "Bearer whatever")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
	}
}

func TestNotesRequireAuth(t *testing.T) {
	repo := &fakeNotesRepo{}

	r := setupNotesRouter(repo, &fakeVerifier{err: auth.ErrInvalidToken})

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing_header", header: ""},
		{name: "invalid_token", header: "Bearer expired"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/notes", nil)

			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("got status %d, want 401", w.Code)
			}

			if repo.called {
				t.Fatal("storage must not be touched before auth succeeds")
			}
		})
	}
}
