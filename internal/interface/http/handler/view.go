package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/booknotes/internal/application/library"
	"github.com/xiebiao/booknotes/internal/domain/view"
	"github.com/xiebiao/booknotes/internal/interface/http/dto"
	"github.com/xiebiao/booknotes/pkg/response"
	"github.com/xiebiao/booknotes/pkg/validate"
)

// ViewHandler read view endpoints
type ViewHandler struct {
	views *library.ViewUseCase
}

// NewViewHandler creates the view handler
func NewViewHandler(views *library.ViewUseCase) *ViewHandler {
	return &ViewHandler{views: views}
}

// TopRated highest rated reviewed books
// @Summary      Top rated books
// @Tags         views
// @Produce      json
// @Param        n query int false "how many (default 3)"
// @Success      200 {object} response.Response{data=[]library.ReviewedBookResponse}
// @Router       /api/v1/views/top-rated [get]
func (h *ViewHandler) TopRated(c *gin.Context) {
	n, err := validate.Limit(c.Query("n"), view.DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.views.TopRated(c.Request.Context(), n)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

// MostRecent most recently read books
// @Summary      Most recently read books
// @Tags         views
// @Produce      json
// @Param        n query int false "how many (default 3)"
// @Success      200 {object} response.Response{data=[]library.ReviewedBookResponse}
// @Router       /api/v1/views/most-recent [get]
func (h *ViewHandler) MostRecent(c *gin.Context) {
	n, err := validate.Limit(c.Query("n"), view.DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.views.MostRecent(c.Request.Context(), n)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

// Home top rated and most recent together
// @Summary      Home page lists
// @Tags         views
// @Produce      json
// @Success      200 {object} response.Response{data=library.HomeResponse}
// @Router       /api/v1/views/home [get]
func (h *ViewHandler) Home(c *gin.Context) {
	home, err := h.views.Home(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, home)
}

// Detail a book with its review and notes
// @Summary      Book detail
// @Tags         views
// @Produce      json
// @Param        id path int true "book id"
// @Success      200 {object} response.Response{data=library.DetailResponse}
// @Router       /api/v1/views/books/{id} [get]
func (h *ViewHandler) Detail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.views.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, d)
}

// SearchReviews reviewed books by title fragment
// @Summary      Search reviewed books
// @Tags         views
// @Produce      json
// @Param        q query string false "title fragment"
// @Param        sort query string false "title | rating | date_read"
// @Success      200 {object} response.Response{data=[]library.ReviewedBookResponse}
// @Failure      200 {object} response.Response "40900 invalid sort key"
// @Router       /api/v1/views/reviews [get]
func (h *ViewHandler) SearchReviews(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	rows, err := h.views.SearchReviews(c.Request.Context(), q.Q, q.Sort)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}
