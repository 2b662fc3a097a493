package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notehq/notehub/internal/security"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrIdentityNotFound   = errors.New("identity not found")
)

// Identity is the provider-side user record. It is separate from the profile
// the services keep: the two can drift, and the profile path reconciles.
type Identity struct {
	UserID            string    `json:"userId"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	PasswordHash      string    `json:"passwordHash"`
	PasswordChangedAt time.Time `json:"passwordChangedAt,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// IdentityStore is what the provider needs from persistence. Small interface
// so tests can fake it easily.
type IdentityStore interface {
	Create(ctx context.Context, id Identity) error
	GetByID(ctx context.Context, userID string) (Identity, error)
	GetByEmail(ctx context.Context, email string) (Identity, error)
	Update(ctx context.Context, id Identity) error
}

// Provider is the auth contract the HTTP layer is written against.
type Provider interface {
	SignUp(ctx context.Context, email, password, username string) (Identity, error)
	SignIn(ctx context.Context, email, password string) (token string, identity Identity, err error)
	VerifyToken(ctx context.Context, token string) (Identity, error)
	ChangePassword(ctx context.Context, userID, newPassword string) error
}

// Service is the store-backed Provider. Accounts are created pre-confirmed;
// there is no email verification step.
type Service struct {
	store  IdentityStore
	tokens *TokenManager
	newID  func() string
	now    func() time.Time
}

func NewService(store IdentityStore, tokens *TokenManager, newID func() string) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		newID:  newID,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) SignUp(ctx context.Context, email, password, username string) (Identity, error) {
	hash, err := security.HashPassword(password)

	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}

	id := Identity{
		UserID:       s.newID(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}

	if err := s.store.Create(ctx, id); err != nil {
		return Identity{}, err
	}

	return id, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (string, Identity, error) {
	id, err := s.store.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return "", Identity{}, ErrInvalidCredentials
		}

		return "", Identity{}, err
	}

	if err := security.CheckPassword(id.PasswordHash, password); err != nil {
		return "", Identity{}, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(id.UserID, id.Email, id.Username)

	if err != nil {
		return "", Identity{}, fmt.Errorf("generate token: %w", err)
	}

	return token, id, nil
}

func (s *Service) VerifyToken(ctx context.Context, token string) (Identity, error) {
	claims, err := s.tokens.ParseAndValidate(token)

	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	id, err := s.store.GetByID(ctx, claims.UserID)

	if err != nil {
		// deleted account: the token no longer maps to an identity
		return Identity{}, ErrInvalidToken
	}

	// Tokens minted before the last password change are dead. This is the
	// stateless stand-in for a revocation list. iat carries whole seconds
	// only, so the change stamp is compared at the same precision; a token
	// issued in the same second as the change stays valid.
	if claims.IssuedAt != nil && !id.PasswordChangedAt.IsZero() &&
		claims.IssuedAt.Time.Before(id.PasswordChangedAt.Truncate(time.Second)) {
		return Identity{}, ErrInvalidToken
	}

	return id, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, newPassword string) error {
	id, err := s.store.GetByID(ctx, userID)

	if err != nil {
		return err
	}

	hash, err := security.HashPassword(newPassword)

	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	id.PasswordHash = hash
	id.PasswordChangedAt = s.now()

	return s.store.Update(ctx, id)
}
