// Package notesview does the client-side shaping of the in-memory note list:
// tag/text filtering and display ordering.
package notesview

import (
	"sort"
	"strings"

	"github.com/notehq/notehub/internal/domain/note"
)

type SortOrder string

const (
	ByDeadline SortOrder = "deadline"
	ByCreated  SortOrder = "created"
)

// Filter keeps notes carrying the tag (exact match) and matching the query
// (case-insensitive substring over title and text). Empty arguments match
// everything.
func Filter(notes []note.Note, tag, query string) []note.Note {
	query = strings.ToLower(query)

	out := make([]note.Note, 0, len(notes))

	for _, n := range notes {
		if tag != "" && !hasTag(n, tag) {
			continue
		}

		if query != "" &&
			!strings.Contains(strings.ToLower(n.Title), query) &&
			!strings.Contains(strings.ToLower(n.Text), query) {
			continue
		}

		out = append(out, n)
	}

	return out
}

// Sort orders the list in place: soonest deadline first, or newest note
// first. Ties break on title so output is stable for display.
func Sort(notes []note.Note, order SortOrder) {
	switch order {
	case ByCreated:
		sort.Slice(notes, func(i, j int) bool {
			if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
				return notes[i].CreatedAt.After(notes[j].CreatedAt)
			}
			return notes[i].Title < notes[j].Title
		})

	default:
		sort.Slice(notes, func(i, j int) bool {
			if !notes[i].Deadline.Equal(notes[j].Deadline) {
				return notes[i].Deadline.Before(notes[j].Deadline)
			}
			return notes[i].Title < notes[j].Title
		})
	}
}

func hasTag(n note.Note, tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}

	return false
}
