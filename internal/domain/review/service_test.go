package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/booknotes/internal/domain/book"
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

type memRepo struct {
	nextID  uint
	reviews map[uint]*Review
}

func (m *memRepo) Create(_ context.Context, r *Review) error {
	for _, e := range m.reviews {
		if e.BookID == r.BookID {
			return ErrReviewExists
		}
	}
	m.nextID++
	r.ID = m.nextID
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *memRepo) FindByBookID(_ context.Context, bookID uint) (*Review, error) {
	for _, r := range m.reviews {
		if r.BookID == bookID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) FindByID(_ context.Context, id uint) (*Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, r *Review) error {
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uint) error {
	delete(m.reviews, id)
	return nil
}

func (m *memRepo) DeleteByBookID(_ context.Context, bookID uint) error {
	for id, r := range m.reviews {
		if r.BookID == bookID {
			delete(m.reviews, id)
		}
	}
	return nil
}

type books map[uint]bool

func (b books) Exists(_ context.Context, id uint) (bool, error) { return b[id], nil }

type passTx struct{}

func (passTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (Service, *memRepo) {
	repo := &memRepo{reviews: map[uint]*Review{}}
	return NewService(repo, books{1: true, 2: true}, passTx{}), repo
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestCreateReview(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, ok, err := svc.GetReviewForBook(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	r, err := svc.CreateReview(ctx, 1, Fields{Rating: 5, DateRead: date("2024-01-01"), Body: "  great "})
	require.NoError(t, err)
	assert.Equal(t, "great", r.Body)

	got, ok, err := svc.GetReviewForBook(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, "2024-01-01", got.DateRead.Format("2006-01-02"))
}

func TestCreateReview_OnePerBook(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateReview(ctx, 1, Fields{Rating: 4, DateRead: date("2024-01-01")})
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, 1, Fields{Rating: 2, DateRead: date("2024-02-01")})
	assert.ErrorIs(t, err, ErrReviewExists)
}

func TestCreateReview_MissingBook(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.CreateReview(context.Background(), 42, Fields{Rating: 3, DateRead: date("2024-01-01")})
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestCreateReview_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []Fields{
		{Rating: 0, DateRead: date("2024-01-01")},
		{Rating: 6, DateRead: date("2024-01-01")},
		{Rating: 3},
	}
	for _, f := range cases {
		_, err := svc.CreateReview(ctx, 1, f)
		assert.True(t, apperrors.IsValidation(err), "fields %+v", f)
	}
}

func TestUpdateAndDeleteReview(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	r, err := svc.CreateReview(ctx, 2, Fields{Rating: 3, DateRead: date("2023-06-01"), Body: "ok"})
	require.NoError(t, err)

	updated, err := svc.UpdateReview(ctx, r.ID, Fields{Rating: 4, DateRead: date("2023-07-01"), Body: "better"})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "better", repo.reviews[r.ID].Body)

	_, err = svc.UpdateReview(ctx, 999, Fields{Rating: 4, DateRead: date("2023-07-01")})
	assert.ErrorIs(t, err, ErrReviewNotFound)

	require.NoError(t, svc.DeleteReview(ctx, r.ID))
	require.NoError(t, svc.DeleteReview(ctx, r.ID))
	_, ok, _ := svc.GetReviewForBook(ctx, 2)
	assert.False(t, ok)
}
