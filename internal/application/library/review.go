package library

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/internal/domain/review"
)

// ReviewUseCase review use cases (not gated)
type ReviewUseCase struct {
	reviews review.Service
	hooks   writeHooks
}

// NewReviewUseCase creates the review use cases
func NewReviewUseCase(reviews review.Service, cache ViewCache, events EventPublisher, logger *zap.Logger) *ReviewUseCase {
	return &ReviewUseCase{
		reviews: reviews,
		hooks:   newWriteHooks(cache, events, logger),
	}
}

// GetForBook returns nil when the book has no review yet
func (uc *ReviewUseCase) GetForBook(ctx context.Context, bookID uint) (*ReviewResponse, error) {
	r, ok, err := uc.reviews.GetReviewForBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	resp := toReviewResponse(r)
	return &resp, nil
}

// Create attaches the review of a book
func (uc *ReviewUseCase) Create(ctx context.Context, bookID uint, req ReviewRequest) (*ReviewResponse, error) {
	f, err := req.fields()
	if err != nil {
		return nil, err
	}

	r, err := uc.reviews.CreateReview(ctx, bookID, f)
	if err != nil {
		return nil, err
	}
	uc.hooks.committed(ctx, EventReviewCreated, r.BookID, r.ID)

	resp := toReviewResponse(r)
	return &resp, nil
}

// Update overwrites a review
func (uc *ReviewUseCase) Update(ctx context.Context, id uint, req ReviewRequest) (*ReviewResponse, error) {
	f, err := req.fields()
	if err != nil {
		return nil, err
	}

	r, err := uc.reviews.UpdateReview(ctx, id, f)
	if err != nil {
		return nil, err
	}
	uc.hooks.committed(ctx, EventReviewUpdated, r.BookID, r.ID)

	resp := toReviewResponse(r)
	return &resp, nil
}

// Delete removes a review; a missing id is not an error
func (uc *ReviewUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.reviews.DeleteReview(ctx, id); err != nil {
		return err
	}
	uc.hooks.committed(ctx, EventReviewDeleted, 0, id)
	return nil
}
