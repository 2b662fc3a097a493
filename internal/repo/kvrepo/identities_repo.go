package kvrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/notehq/notehub/internal/auth"
	"github.com/notehq/notehub/internal/kv"
)

// IdentitiesRepo implements auth.IdentityStore on the kv store. The email
// index write is a second, non-transactional step; Create orders it last so a
// half-finished signup never leaves a dangling email claim.
type IdentitiesRepo struct {
	store kv.Store
}

func NewIdentitiesRepo(store kv.Store) *IdentitiesRepo {
	return &IdentitiesRepo{store: store}
}

func (r *IdentitiesRepo) Create(ctx context.Context, id auth.Identity) error {
	_, err := r.store.Get(ctx, emailKey(id.Email))

	if err == nil {
		return auth.ErrEmailTaken
	}

	if !errors.Is(err, kv.ErrKeyNotFound) {
		return fmt.Errorf("check email index: %w", err)
	}

	raw, err := json.Marshal(id)

	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	if err := r.store.Set(ctx, identityKey(id.UserID), raw); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}

	if err := r.store.Set(ctx, emailKey(id.Email), []byte(`"`+id.UserID+`"`)); err != nil {
		return fmt.Errorf("save email index: %w", err)
	}

	return nil
}

func (r *IdentitiesRepo) GetByID(ctx context.Context, userID string) (auth.Identity, error) {
	raw, err := r.store.Get(ctx, identityKey(userID))

	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return auth.Identity{}, auth.ErrIdentityNotFound
		}

		return auth.Identity{}, fmt.Errorf("get identity: %w", err)
	}

	return decodeIdentity(raw)
}

func (r *IdentitiesRepo) GetByEmail(ctx context.Context, email string) (auth.Identity, error) {
	raw, err := r.store.Get(ctx, emailKey(email))

	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return auth.Identity{}, auth.ErrIdentityNotFound
		}

		return auth.Identity{}, fmt.Errorf("get email index: %w", err)
	}

	var userID string

	if err := json.Unmarshal(raw, &userID); err != nil {
		return auth.Identity{}, fmt.Errorf("decode email index: %w", err)
	}

	return r.GetByID(ctx, userID)
}

func (r *IdentitiesRepo) Update(ctx context.Context, id auth.Identity) error {
	raw, err := json.Marshal(id)

	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	if err := r.store.Set(ctx, identityKey(id.UserID), raw); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}

	return nil
}

func decodeIdentity(raw []byte) (auth.Identity, error) {
	var id auth.Identity

	if err := json.Unmarshal(raw, &id); err != nil {
		return auth.Identity{}, fmt.Errorf("decode identity: %w", err)
	}

	return id, nil
}
