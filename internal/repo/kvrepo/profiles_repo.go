package kvrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/notehq/notehub/internal/domain/profile"
	"github.com/notehq/notehub/internal/kv"
)

type ProfilesRepo struct {
	store kv.Store
}

func NewProfilesRepo(store kv.Store) *ProfilesRepo {
	return &ProfilesRepo{store: store}
}

func (r *ProfilesRepo) Get(ctx context.Context, userID string) (profile.Profile, error) {
	raw, err := r.store.Get(ctx, profileKey(userID))

	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return profile.Profile{}, profile.ErrNotFound
		}

		return profile.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	var p profile.Profile

	if err := json.Unmarshal(raw, &p); err != nil {
		return profile.Profile{}, fmt.Errorf("decode profile: %w", err)
	}

	return p, nil
}

func (r *ProfilesRepo) Save(ctx context.Context, p profile.Profile) error {
	raw, err := json.Marshal(p)

	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	if err := r.store.Set(ctx, profileKey(p.UserID), raw); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	return nil
}
