package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/booknotes/internal/application/library"
	"github.com/xiebiao/booknotes/internal/interface/http/dto"
	"github.com/xiebiao/booknotes/pkg/response"
)

// ReviewHandler review endpoints
type ReviewHandler struct {
	reviews *library.ReviewUseCase
}

// NewReviewHandler creates the review handler
func NewReviewHandler(reviews *library.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// GetReview returns the review of a book; data is null when there is none
// @Summary      Get the review of a book
// @Tags         reviews
// @Produce      json
// @Param        id path int true "book id"
// @Success      200 {object} response.Response{data=library.ReviewResponse}
// @Router       /api/v1/books/{id}/review [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	bookID, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.reviews.GetForBook(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	// a nil review serializes as data: null
	response.Success(c, r)
}

// CreateReview attaches the review of a book
// @Summary      Review a book
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id path int true "book id"
// @Param        request body dto.ReviewRequest true "review"
// @Success      200 {object} response.Response{data=library.ReviewResponse}
// @Failure      200 {object} response.Response "40009 this book already has a review"
// @Router       /api/v1/books/{id}/review [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	bookID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	r, err := h.reviews.Create(c.Request.Context(), bookID, toReviewRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, r)
}

// UpdateReview overwrites a review
// @Summary      Update a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id path int true "review id"
// @Param        request body dto.ReviewRequest true "review"
// @Success      200 {object} response.Response{data=library.ReviewResponse}
// @Router       /api/v1/reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	r, err := h.reviews.Update(c.Request.Context(), id, toReviewRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, r)
}

// DeleteReview removes a review
// @Summary      Delete a review
// @Tags         reviews
// @Produce      json
// @Param        id path int true "review id"
// @Success      200 {object} response.Response
// @Router       /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.reviews.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func toReviewRequest(req dto.ReviewRequest) library.ReviewRequest {
	return library.ReviewRequest{
		Rating:   req.Rating,
		DateRead: req.DateRead,
		Body:     req.Review,
	}
}
