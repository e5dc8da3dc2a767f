package note

import (
	"time"
)

// Note is a free-form annotation on a book. Notes of a book are ordered
// by ID, which is their insertion order.
type Note struct {
	ID        uint
	BookID    uint
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNote creates a note (factory)
func NewNote(bookID uint, body string) *Note {
	now := time.Now()
	return &Note{
		BookID:    bookID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Edit replaces the body
func (n *Note) Edit(body string) {
	n.Body = body
	n.UpdatedAt = time.Now()
}
