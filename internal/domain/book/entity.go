package book

import (
	"time"
)

// Book is the catalog aggregate root.
// Design notes:
// 1. ISBN is the cover lookup key only; it is not unique in storage
// 2. CoverURL is empty when no cover could be resolved
type Book struct {
	ID          uint
	Title       string // required
	Author      string
	Description string
	ISBN        string // catalog identifier
	CoverURL    string // "" means no cover
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fields are the mutable attributes submitted on create and update.
type Fields struct {
	Title       string
	Author      string
	Description string
	ISBN        string
}

// NewBook creates a book from already-normalized fields (factory)
func NewBook(f Fields, coverURL string) *Book {
	now := time.Now()
	return &Book{
		Title:       f.Title,
		Author:      f.Author,
		Description: f.Description,
		ISBN:        f.ISBN,
		CoverURL:    coverURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply overwrites every mutable field, including the cover.
// Unlike a partial patch, empty values clear the field.
func (b *Book) Apply(f Fields, coverURL string) {
	b.Title = f.Title
	b.Author = f.Author
	b.Description = f.Description
	b.ISBN = f.ISBN
	b.CoverURL = coverURL
	b.UpdatedAt = time.Now()
}

// HasCover reports whether a cover URL was resolved
func (b *Book) HasCover() bool {
	return b.CoverURL != ""
}
