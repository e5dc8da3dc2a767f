// Package dto holds the HTTP request bodies. Responses reuse the
// application layer's response types.
package dto

// BookRequest HTTP create/update book body.
// Update overwrites every field: omitted fields are cleared.
type BookRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Dune"`
	Author      string `json:"author" binding:"max=100" example:"Frank Herbert"`
	Description string `json:"description" example:"Desert planet politics"`
	ISBN        string `json:"isbn" binding:"max=20" example:"9780441172719"`
}

// ReviewRequest HTTP create/update review body
type ReviewRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5" example:"5"`
	DateRead string `json:"date_read" binding:"required" example:"2024-01-01"`
	Review   string `json:"review" example:"A classic."`
}

// NoteRequest HTTP create/update note body
type NoteRequest struct {
	Notes string `json:"notes" binding:"required" example:"The spice must flow."`
}

// SignInRequest HTTP editor sign-in body
type SignInRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// SearchQuery query string of GET /views/reviews
type SearchQuery struct {
	Q    string `form:"q" example:"dune"`
	Sort string `form:"sort" example:"rating"`
}
