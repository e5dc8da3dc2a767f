package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/booknotes/internal/application/library"
	"github.com/xiebiao/booknotes/internal/interface/http/dto"
	"github.com/xiebiao/booknotes/internal/interface/http/middleware"
	"github.com/xiebiao/booknotes/pkg/response"
)

// BookHandler catalog endpoints
type BookHandler struct {
	catalog *library.CatalogUseCase
}

// NewBookHandler creates the book handler
func NewBookHandler(catalog *library.CatalogUseCase) *BookHandler {
	return &BookHandler{catalog: catalog}
}

// ListBooks lists books, optionally filtered by title
// @Summary      List books
// @Description  All books ordered by title; q filters by a case-insensitive title substring
// @Tags         books
// @Produce      json
// @Param        q query string false "title fragment"
// @Success      200 {object} response.Response{data=[]library.BookResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.catalog.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, books)
}

// GetBook returns one book
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        id path int true "book id"
// @Success      200 {object} response.Response{data=library.BookResponse}
// @Failure      200 {object} response.Response "40402 book not found"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, b)
}

// CreateBook adds a book and resolves its cover from the ISBN
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "book"
// @Success      200 {object} response.Response{data=library.BookResponse}
// @Failure      200 {object} response.Response "40104 editor access required"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.catalog.Create(c.Request.Context(), middleware.SessionToken(c), toBookRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, b)
}

// UpdateBook overwrites a book
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "book id"
// @Param        request body dto.BookRequest true "book"
// @Success      200 {object} response.Response{data=library.BookResponse}
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	b, err := h.catalog.Update(c.Request.Context(), middleware.SessionToken(c), id, toBookRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, b)
}

// DeleteBook removes a book with its review and notes
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "book id"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "40010 delete aborted, retry"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), middleware.SessionToken(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func toBookRequest(req dto.BookRequest) library.BookRequest {
	return library.BookRequest{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		ISBN:        req.ISBN,
	}
}
