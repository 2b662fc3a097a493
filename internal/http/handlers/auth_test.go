package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notehq/notehub/internal/auth"
	"github.com/notehq/notehub/internal/domain/profile"
	"github.com/notehq/notehub/internal/http/handlers"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Fake auth.Provider

type fakeProvider struct {
	signUpFn func(ctx context.Context, email, password, username string) (auth.Identity, error)
	signInFn func(ctx context.Context, email, password string) (string, auth.Identity, error)
	changeFn func(ctx context.Context, userID, newPassword string) error
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password, username string) (auth.Identity, error) {
	if f.signUpFn != nil {
		return f.signUpFn(ctx, email, password, username)
	}
	return auth.Identity{}, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (string, auth.Identity, error) {
	if f.signInFn != nil {
		return f.signInFn(ctx, email, password)
	}
	return "", auth.Identity{}, nil
}

func (f *fakeProvider) VerifyToken(ctx context.Context, token string) (auth.Identity, error) {
	return auth.Identity{}, auth.ErrInvalidToken
}

func (f *fakeProvider) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if f.changeFn != nil {
		return f.changeFn(ctx, userID, newPassword)
	}
	return nil
}

// Fake profile writer

type fakeProfiles struct {
	saved  []profile.Profile
	getFn  func(ctx context.Context, userID string) (profile.Profile, error)
	saveFn func(ctx context.Context, p profile.Profile) error
}

func (f *fakeProfiles) Get(ctx context.Context, userID string) (profile.Profile, error) {
	if f.getFn != nil {
		return f.getFn(ctx, userID)
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (f *fakeProfiles) Save(ctx context.Context, p profile.Profile) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, p)
	}
	f.saved = append(f.saved, p)
	return nil
}

func setupSignupRouter(provider auth.Provider, profiles handlers.ProfileWriter) *gin.Engine {
	r := gin.New()

	h := handlers.NewAuthHandler(provider, profiles, discardLogger())
	r.POST("/signup", h.SignUp)
	r.POST("/login", h.Login)

	return r
}

func TestSignUpHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		body           string
		providerSetUp  func(*fakeProvider)
		wantStatusCode int
		wantProfiles   int
	}{
		{
			name: "success",
			body: `{"email": "a@example.com", "password": "hunter22", "username": "alice"}`,
			providerSetUp: func(f *fakeProvider) {
				f.signUpFn = func(ctx context.Context, email, password, username string) (auth.Identity, error) {
					return auth.Identity{
						UserID:    "u1",
						Email:     email,
						Username:  username,
						CreatedAt: now,
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantProfiles:   1,
		},
		{
			name:           "missing_fields",
			body:           `{"email": "a@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "short_password",
			body:           `{"email": "a@example.com", "password": "abc", "username": "alice"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "email_taken",
			body: `{"email": "a@example.com", "password": "hunter22", "username": "alice"}`,
			providerSetUp: func(f *fakeProvider) {
				f.signUpFn = func(ctx context.Context, email, password, username string) (auth.Identity, error) {
					return auth.Identity{}, auth.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{}

			if tt.providerSetUp != nil {
				tt.providerSetUp(provider)
			}

			profiles := &fakeProfiles{}

			r := setupSignupRouter(provider, profiles)

			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if len(profiles.saved) != tt.wantProfiles {
				t.Fatalf("got %d profile writes, want %d", len(profiles.saved), tt.wantProfiles)
			}
		})
	}
}

func TestSignUpProfileWriteFailure(t *testing.T) {
	provider := &fakeProvider{
		signUpFn: func(ctx context.Context, email, password, username string) (auth.Identity, error) {
			return auth.Identity{UserID: "u1", Email: email, Username: username}, nil
		},
	}

	profiles := &fakeProfiles{
		saveFn: func(ctx context.Context, p profile.Profile) error {
			return errors.New("store down")
		},
	}

	r := setupSignupRouter(provider, profiles)

	body := `{"email": "a@example.com", "password": "hunter22", "username": "alice"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// identity was created but the profile write was lost; surfaced as 500
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", w.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		providerSetUp  func(*fakeProvider)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email": "a@example.com", "password": "hunter22"}`,
			providerSetUp: func(f *fakeProvider) {
				f.signInFn = func(ctx context.Context, email, password string) (string, auth.Identity, error) {
					return "token-123", auth.Identity{UserID: "u1", Username: "alice"}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "bad_credentials",
			body: `{"email": "a@example.com", "password": "wrong"}`,
			providerSetUp: func(f *fakeProvider) {
				f.signInFn = func(ctx context.Context, email, password string) (string, auth.Identity, error) {
					return "", auth.Identity{}, auth.ErrInvalidCredentials
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "missing_password",
			body:           `{"email": "a@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{}

			if tt.providerSetUp != nil {
				tt.providerSetUp(provider)
			}

			r := setupSignupRouter(provider, &fakeProfiles{})

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
