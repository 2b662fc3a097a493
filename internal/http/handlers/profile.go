package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notehq/notehub/internal/auth"
	"github.com/notehq/notehub/internal/config"
	"github.com/notehq/notehub/internal/domain/profile"
	"github.com/notehq/notehub/internal/http/middlewares"
)

type ProfileStore interface {
	Get(ctx context.Context, userID string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

type IdentityReader interface {
	GetByID(ctx context.Context, userID string) (auth.Identity, error)
}

type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID, newPassword string) error
}

type ProfileHandler struct {
	profiles   ProfileStore
	identities IdentityReader
	provider   PasswordChanger
	log        *slog.Logger
}

func NewProfileHandler(profiles ProfileStore, identities IdentityReader, provider PasswordChanger, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:   profiles,
		identities: identities,
		provider:   provider,
		log:        log,
	}
}

// GetProfile reads the stored profile. A signup whose profile write was lost
// leaves the identity and the profile desynced; when that happens the profile
// is rebuilt from the identity record instead of 404ing forever.
func (h *ProfileHandler) GetProfile(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.profiles.Get(cctx, userID)

	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			p, err = h.reconcile(cctx, userID)

			if err != nil {
				RespondNotFound(ctx, "Profile not found")
				return
			}

			ctx.JSON(http.StatusOK, gin.H{"profile": p})
			return
		}

		RespondInternal(ctx, "Could not fetch profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *ProfileHandler) reconcile(ctx context.Context, userID string) (profile.Profile, error) {
	identity, err := h.identities.GetByID(ctx, userID)

	if err != nil {
		return profile.Profile{}, err
	}

	p := profile.Profile{
		UserID:    identity.UserID,
		Username:  identity.Username,
		Email:     identity.Email,
		CreatedAt: identity.CreatedAt,
	}

	if err := h.profiles.Save(ctx, p); err != nil {
		// serve the rebuilt profile anyway; the next read retries the write
		h.log.Error("profile reconciliation write failed", "user_id", userID, "err", err)
	} else {
		h.log.Info("profile rebuilt from identity", "user_id", userID)
	}

	return p, nil
}

type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ChangePassword delegates to the auth provider. Nothing is persisted on the
// profile side; outstanding tokens die with the old password.
func (h *ProfileHandler) ChangePassword(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req ChangePasswordRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.provider.ChangePassword(cctx, userID, req.NewPassword); err != nil {
		RespondInternal(ctx, "Could not change password")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "password changed, please sign in again",
	})
}
