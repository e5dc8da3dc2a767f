package library

import (
	"github.com/xiebiao/booknotes/internal/domain/book"
	"github.com/xiebiao/booknotes/internal/domain/note"
	"github.com/xiebiao/booknotes/internal/domain/review"
	"github.com/xiebiao/booknotes/internal/domain/view"
	"github.com/xiebiao/booknotes/pkg/validate"
)

const timeLayout = "2006-01-02 15:04:05"

// BookRequest fields submitted on create and update
type BookRequest struct {
	Title       string
	Author      string
	Description string
	ISBN        string
}

func (r BookRequest) fields() book.Fields {
	return book.Fields{
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
		ISBN:        r.ISBN,
	}
}

// ReviewRequest fields submitted on create and update
type ReviewRequest struct {
	Rating   int
	DateRead string // YYYY-MM-DD
	Body     string
}

func (r ReviewRequest) fields() (review.Fields, error) {
	d, err := validate.Date("date_read", r.DateRead)
	if err != nil {
		return review.Fields{}, err
	}
	return review.Fields{Rating: r.Rating, DateRead: d, Body: r.Body}, nil
}

// BookResponse book DTO
type BookResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	ISBN        string `json:"isbn"`
	CoverURL    string `json:"cover_url"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ReviewResponse review DTO
type ReviewResponse struct {
	ID       uint   `json:"id"`
	BookID   uint   `json:"book_id"`
	Rating   int    `json:"rating"`
	DateRead string `json:"date_read"`
	Body     string `json:"review"`
}

// NoteResponse note DTO
type NoteResponse struct {
	ID        uint   `json:"id"`
	BookID    uint   `json:"book_id"`
	Body      string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

// ReviewedBookResponse one row of the joined views
type ReviewedBookResponse struct {
	Book   BookResponse   `json:"book"`
	Review ReviewResponse `json:"review"`
}

// DetailResponse book, optional review and notes
type DetailResponse struct {
	Book   BookResponse    `json:"book"`
	Review *ReviewResponse `json:"review"` // null when the book has no review
	Notes  []NoteResponse  `json:"notes"`
}

// HomeResponse landing page lists
type HomeResponse struct {
	TopRated   []ReviewedBookResponse `json:"top_rated"`
	MostRecent []ReviewedBookResponse `json:"most_recent"`
}

// SessionResponse token and role of a session
type SessionResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

func toBookResponse(b *book.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		ISBN:        b.ISBN,
		CoverURL:    b.CoverURL,
		CreatedAt:   b.CreatedAt.Format(timeLayout),
		UpdatedAt:   b.UpdatedAt.Format(timeLayout),
	}
}

func toBookResponses(books []*book.Book) []BookResponse {
	out := make([]BookResponse, len(books))
	for i, b := range books {
		out[i] = toBookResponse(b)
	}
	return out
}

func toReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:       r.ID,
		BookID:   r.BookID,
		Rating:   r.Rating,
		DateRead: r.DateRead.Format(validate.DateLayout),
		Body:     r.Body,
	}
}

func toNoteResponse(n *note.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		BookID:    n.BookID,
		Body:      n.Body,
		CreatedAt: n.CreatedAt.Format(timeLayout),
	}
}

func toNoteResponses(notes []*note.Note) []NoteResponse {
	out := make([]NoteResponse, len(notes))
	for i, n := range notes {
		out[i] = toNoteResponse(n)
	}
	return out
}

func toReviewedResponses(rows []*view.ReviewedBook) []ReviewedBookResponse {
	out := make([]ReviewedBookResponse, len(rows))
	for i, r := range rows {
		out[i] = ReviewedBookResponse{
			Book:   toBookResponse(r.Book),
			Review: toReviewResponse(r.Review),
		}
	}
	return out
}

func toDetailResponse(d *view.Detail) *DetailResponse {
	resp := &DetailResponse{
		Book:  toBookResponse(d.Book),
		Notes: toNoteResponses(d.Notes),
	}
	if d.Review != nil {
		r := toReviewResponse(d.Review)
		resp.Review = &r
	}
	return resp
}
