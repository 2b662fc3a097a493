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
)

type ProfileWriter interface {
	Save(ctx context.Context, p profile.Profile) error
}

type AuthHandler struct {
	provider auth.Provider
	profiles ProfileWriter
	log      *slog.Logger
}

func NewAuthHandler(provider auth.Provider, profiles ProfileWriter, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		profiles: profiles,
		log:      log,
	}
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required,min=1,max=60"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp creates the identity and then the profile. The two writes are not
// atomic; a lost profile write is repaired on the next profile read.
func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	identity, err := h.provider.SignUp(cctx, req.Email, req.Password, req.Username)

	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			RespondBadRequest(ctx, "Email is already in use.", nil)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	p := profile.Profile{
		UserID:    identity.UserID,
		Username:  identity.Username,
		Email:     identity.Email,
		CreatedAt: identity.CreatedAt,
	}

	if err := h.profiles.Save(cctx, p); err != nil {
		// identity exists but the profile write was lost; the read path
		// rebuilds it from the identity record
		h.log.Error("profile write failed after signup", "user_id", identity.UserID, "err", err)

		RespondInternal(ctx, "Could not create profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":  "signup complete",
		"userId":   identity.UserID,
		"username": identity.Username,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	token, identity, err := h.provider.SignIn(cctx, req.Email, req.Password)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		RespondInternal(ctx, "Could not sign in")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"userId":      identity.UserID,
		"username":    identity.Username,
	})
}
