package handlers_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notehq/notehub/internal/auth"
	"github.com/notehq/notehub/internal/domain/profile"
	"github.com/notehq/notehub/internal/http/handlers"
	"github.com/notehq/notehub/internal/http/middlewares"
)

type fakeIdentityReader struct {
	getFn func(ctx context.Context, userID string) (auth.Identity, error)
}

func (f *fakeIdentityReader) GetByID(ctx context.Context, userID string) (auth.Identity, error) {
	if f.getFn != nil {
		return f.getFn(ctx, userID)
	}
	return auth.Identity{}, auth.ErrIdentityNotFound
}

func setupProfileRouter(profiles handlers.ProfileStore, identities handlers.IdentityReader, changer handlers.PasswordChanger) *gin.Engine {
	r := gin.New()

	h := handlers.NewProfileHandler(profiles, identities, changer, discardLogger())
	mw := middlewares.NewAuthMiddleware(&fakeVerifier{identity: auth.Identity{UserID: "u1"}})

	protected := r.Group("/", mw.RequireAuth())
	protected.GET("/profile", h.GetProfile)
	protected.POST("/profile/password", h.ChangePassword)

	return r
}

func TestGetProfile(t *testing.T) {
	now := time.Now().UTC()

	profiles := &fakeProfiles{
		getFn: func(ctx context.Context, userID string) (profile.Profile, error) {
			return profile.Profile{UserID: userID, Username: "alice", Email: "a@example.com", CreatedAt: now}, nil
		},
	}

	r := setupProfileRouter(profiles, &fakeIdentityReader{}, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer whatever")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
}

func TestGetProfileRebuildsFromIdentity(t *testing.T) {
	now := time.Now().UTC()

	profiles := &fakeProfiles{} // Get always misses, Save records

	identities := &fakeIdentityReader{
		getFn: func(ctx context.Context, userID string) (auth.Identity, error) {
			return auth.Identity{UserID: userID, Username: "alice", Email: "a@example.com", CreatedAt: now}, nil
		},
	}

	r := setupProfileRouter(profiles, identities, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer whatever")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("desynced profile should be rebuilt, got %d, body=%s", w.Code, w.Body.String())
	}

	if len(profiles.saved) != 1 || profiles.saved[0].Username != "alice" {
		t.Fatalf("expected the rebuilt profile to be persisted, got %+v", profiles.saved)
	}
}

func TestGetProfileTrulyMissing(t *testing.T) {
	r := setupProfileRouter(&fakeProfiles{}, &fakeIdentityReader{}, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer whatever")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantChanged    bool
	}{
		{
			name:           "success",
			body:           `{"newPassword": "hunter22"}`,
			wantStatusCode: http.StatusOK,
			wantChanged:    true,
		},
		{
			name:           "too_short",
			body:           `{"newPassword": "abc"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing",
			body:           `{}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			changed := false

			provider := &fakeProvider{
				changeFn: func(ctx context.Context, userID, newPassword string) error {
					changed = true
					return nil
				},
			}

			r := setupProfileRouter(&fakeProfiles{}, &fakeIdentityReader{}, provider)

			req := httptest.NewRequest(http.MethodPost, "/profile/password", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer whatever")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if changed != tt.wantChanged {
				t.Fatalf("provider called = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}
