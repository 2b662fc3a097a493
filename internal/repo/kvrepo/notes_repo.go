package kvrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/notehq/notehub/internal/domain/note"
	"github.com/notehq/notehub/internal/kv"
)

// NotesRepo persists notes under the per-user key namespace. There is no
// locking and no version check: the store serializes individual writes and
// last write wins, per the service's concurrency model.
type NotesRepo struct {
	store kv.Store
	newID func() string
	now   func() time.Time
}

func NewNotesRepo(store kv.Store) *NotesRepo {
	return &NotesRepo{
		store: store,
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *NotesRepo) ListByUser(ctx context.Context, userID string) ([]note.Note, error) {
	entries, err := r.store.Scan(ctx, notePrefix(userID))

	if err != nil {
		return nil, fmt.Errorf("scan notes: %w", err)
	}

	notes := make([]note.Note, 0, len(entries))

	for _, e := range entries {
		var n note.Note

		if err := json.Unmarshal(e.Value, &n); err != nil {
			// corrupt entry: drop it rather than failing the whole list
			continue
		}

		if n.ID == "" || n.Title == "" {
			continue
		}

		notes = append(notes, n)
	}

	return notes, nil
}

func (r *NotesRepo) Create(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error) {
	n := note.Note{
		ID:        r.newID(),
		UserID:    userID,
		Title:     req.Title,
		Text:      req.Text,
		Tags:      dedupeTags(req.Tags),
		Deadline:  req.Deadline,
		CreatedAt: r.now(),
	}

	if err := r.save(ctx, n); err != nil {
		return note.Note{}, err
	}

	return n, nil
}

func (r *NotesRepo) Update(ctx context.Context, userID, noteID string, req note.UpdateNoteRequest) (note.Note, error) {
	existing, err := r.get(ctx, userID, noteID)

	if err != nil {
		return note.Note{}, err
	}

	// merge over the stored record; id, userId and createdAt never change
	existing.Title = req.Title
	existing.Deadline = req.Deadline

	if req.Text != nil {
		existing.Text = *req.Text
	}

	if req.Tags != nil {
		existing.Tags = dedupeTags(*req.Tags)
	}

	if err := r.save(ctx, existing); err != nil {
		return note.Note{}, err
	}

	return existing, nil
}

func (r *NotesRepo) Delete(ctx context.Context, userID, noteID string) error {
	err := r.store.Delete(ctx, noteKey(userID, noteID))

	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return note.ErrNotFound
		}

		return fmt.Errorf("delete note: %w", err)
	}

	return nil
}

// dedupeTags drops repeated tags, keeping the first occurrence so the
// caller's order survives. Tags are a set.
func dedupeTags(tags []string) []string {
	if len(tags) < 2 {
		return tags
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))

	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}

		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}

func (r *NotesRepo) get(ctx context.Context, userID, noteID string) (note.Note, error) {
	raw, err := r.store.Get(ctx, noteKey(userID, noteID))

	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return note.Note{}, note.ErrNotFound
		}

		return note.Note{}, fmt.Errorf("get note: %w", err)
	}

	var n note.Note

	if err := json.Unmarshal(raw, &n); err != nil {
		return note.Note{}, fmt.Errorf("decode note: %w", err)
	}

	return n, nil
}

func (r *NotesRepo) save(ctx context.Context, n note.Note) error {
	raw, err := json.Marshal(n)

	if err != nil {
		return fmt.Errorf("encode note: %w", err)
	}

	if err := r.store.Set(ctx, noteKey(n.UserID, n.ID), raw); err != nil {
		return fmt.Errorf("save note: %w", err)
	}

	return nil
}
