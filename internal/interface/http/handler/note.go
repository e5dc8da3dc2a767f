package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/booknotes/internal/application/library"
	"github.com/xiebiao/booknotes/internal/interface/http/dto"
	"github.com/xiebiao/booknotes/pkg/response"
)

// NoteHandler note endpoints
type NoteHandler struct {
	notes *library.NoteUseCase
}

// NewNoteHandler creates the note handler
func NewNoteHandler(notes *library.NoteUseCase) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// ListNotes returns the notes of a book, oldest first
// @Summary      List the notes of a book
// @Tags         notes
// @Produce      json
// @Param        id path int true "book id"
// @Success      200 {object} response.Response{data=[]library.NoteResponse}
// @Router       /api/v1/books/{id}/notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	bookID, ok := pathID(c)
	if !ok {
		return
	}
	notes, err := h.notes.List(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notes)
}

// CreateNote adds a note to a book
// @Summary      Add a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id path int true "book id"
// @Param        request body dto.NoteRequest true "note"
// @Success      200 {object} response.Response{data=library.NoteResponse}
// @Router       /api/v1/books/{id}/notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	bookID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	n, err := h.notes.Create(c.Request.Context(), bookID, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, n)
}

// UpdateNote replaces a note body
// @Summary      Edit a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id path int true "note id"
// @Param        request body dto.NoteRequest true "note"
// @Success      200 {object} response.Response{data=library.NoteResponse}
// @Router       /api/v1/notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	n, err := h.notes.Update(c.Request.Context(), id, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, n)
}

// DeleteNote removes a note
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Param        id path int true "note id"
// @Success      200 {object} response.Response
// @Router       /api/v1/notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
