package note

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("note not found")

type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Text      string    `json:"text,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Deadline  time.Time `json:"deadline"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateNoteRequest struct {
	Title    string    `json:"title" binding:"required,min=1,max=200"`
	Text     string    `json:"text" binding:"omitempty,max=10000"`
	Tags     []string  `json:"tags" binding:"omitempty,max=32,dive,min=1,max=40"`
	Deadline time.Time `json:"deadline" binding:"required"`
}

// Update carries the same required fields as create so a PUT can never null
// out a deadline. Text and tags are pointers: nil leaves the stored value.
type UpdateNoteRequest struct {
	Title    string    `json:"title" binding:"required,min=1,max=200"`
	Text     *string   `json:"text" binding:"omitempty,max=10000"`
	Tags     *[]string `json:"tags" binding:"omitempty"`
	Deadline time.Time `json:"deadline" binding:"required"`
}
