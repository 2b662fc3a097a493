package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notehq/notehub/internal/config"
	"github.com/notehq/notehub/internal/domain/note"
	"github.com/notehq/notehub/internal/http/middlewares"
)

// NotesRepository is what the handler needs; the kv-backed repo satisfies it.
type NotesRepository interface {
	ListByUser(ctx context.Context, userID string) ([]note.Note, error)
	Create(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error)
	Update(ctx context.Context, userID, noteID string, req note.UpdateNoteRequest) (note.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
}

type NotesHandler struct {
	repo NotesRepository
}

func NewNotesHandler(repo NotesRepository) *NotesHandler {
	return &NotesHandler{repo: repo}
}

func (h *NotesHandler) ListNotes(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	notes, err := h.repo.ListByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list notes")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *NotesHandler) CreateNote(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req note.CreateNoteRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	n, err := h.repo.Create(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create note")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"note": n})
}

func (h *NotesHandler) UpdateNote(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id := ctx.Param("id")

	var req note.UpdateNoteRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	n, err := h.repo.Update(cctx, userID, id, req)

	if err != nil {
		if errors.Is(err, note.ErrNotFound) {
			RespondNotFound(ctx, "Note not found")
			return
		}

		RespondInternal(ctx, "Could not update note")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"note": n})
}

func (h *NotesHandler) DeleteNote(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, userID, id)

	if err != nil {
		if errors.Is(err, note.ErrNotFound) {
			RespondNotFound(ctx, "Note not found")
			return
		}

		RespondInternal(ctx, "Could not delete note")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}
