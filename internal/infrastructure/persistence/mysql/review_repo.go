package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/booknotes/internal/domain/review"
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates the review repository
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// Create inserts a review; the unique index on book_id backs ErrReviewExists
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := toReviewModel(rv)

	if err := getDB(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return review.ErrReviewExists
		}
		if isForeignKeyError(err) {
			return review.ErrBookNotFound
		}
		return apperrors.Wrap(err, "create review")
	}

	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	rv.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByBookID returns nil without error when the book has no review
func (r *reviewRepository) FindByBookID(ctx context.Context, bookID uint) (*review.Review, error) {
	var models []ReviewModel
	err := getDB(ctx, r.db).Where("book_id = ?", bookID).Limit(1).Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "query review")
	}
	if len(models) == 0 {
		return nil, nil
	}
	return toReviewEntity(&models[0]), nil
}

// FindByID looks a review up by id
func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	var model ReviewModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "query review")
	}
	return toReviewEntity(&model), nil
}

// Update overwrites rating, date read and body
func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	result := getDB(ctx, r.db).Model(&ReviewModel{ID: rv.ID}).
		Select("rating", "date_read", "review", "updated_at").
		Updates(toReviewModel(rv))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "update review")
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, rv.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a review; an absent id is not an error
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	if err := getDB(ctx, r.db).Delete(&ReviewModel{}, id).Error; err != nil {
		return apperrors.Wrap(err, "delete review")
	}
	return nil
}

// DeleteByBookID removes the review of a book
func (r *reviewRepository) DeleteByBookID(ctx context.Context, bookID uint) error {
	if err := getDB(ctx, r.db).Where("book_id = ?", bookID).Delete(&ReviewModel{}).Error; err != nil {
		return apperrors.Wrap(err, "delete reviews of book")
	}
	return nil
}

func toReviewModel(rv *review.Review) *ReviewModel {
	return &ReviewModel{
		ID:        rv.ID,
		BookID:    rv.BookID,
		Rating:    rv.Rating,
		DateRead:  storageDate(rv.DateRead),
		Body:      rv.Body,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
}

func toReviewEntity(m *ReviewModel) *review.Review {
	return &review.Review{
		ID:        m.ID,
		BookID:    m.BookID,
		Rating:    m.Rating,
		DateRead:  calendarDate(m.DateRead),
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
