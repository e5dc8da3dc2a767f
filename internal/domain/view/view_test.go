package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/booknotes/internal/domain/book"
	"github.com/xiebiao/booknotes/internal/domain/note"
	"github.com/xiebiao/booknotes/internal/domain/review"
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

func TestParseSortKey(t *testing.T) {
	cases := map[string]SortKey{
		"":          ByTitle,
		"title":     ByTitle,
		"rating":    ByRating,
		"date_read": ByDateRead,
	}
	for in, want := range cases {
		got, err := ParseSortKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		assert.True(t, got.Valid())
	}

	for _, in := range []string{"nonexistent_column", "Rating", "rating desc", "title; DROP TABLE books", "id"} {
		_, err := ParseSortKey(in)
		assert.ErrorIs(t, err, ErrInvalidSortKey, in)
		assert.True(t, apperrors.IsValidation(err))
	}

	assert.False(t, SortKey(7).Valid())
	assert.Equal(t, "date_read", ByDateRead.String())
}

type fakeRepo struct {
	limits []int
	keys   []SortKey
	frags  []string
}

func (f *fakeRepo) TopRated(_ context.Context, limit int) ([]*ReviewedBook, error) {
	f.limits = append(f.limits, limit)
	return nil, nil
}

func (f *fakeRepo) MostRecent(_ context.Context, limit int) ([]*ReviewedBook, error) {
	f.limits = append(f.limits, limit)
	return nil, nil
}

func (f *fakeRepo) SearchReviewed(_ context.Context, fragment string, key SortKey) ([]*ReviewedBook, error) {
	f.frags = append(f.frags, fragment)
	f.keys = append(f.keys, key)
	return nil, nil
}

type passTx struct{}

func (passTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestService_LimitsAndSort(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, nil, nil, passTx{})
	ctx := context.Background()

	_, err := svc.TopRated(ctx, 0)
	require.NoError(t, err)
	_, err = svc.MostRecent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{DefaultLimit, 10}, repo.limits)

	_, err = svc.SearchReviews(ctx, " dune ", "rating")
	require.NoError(t, err)
	assert.Equal(t, []SortKey{ByRating}, repo.keys)
	assert.Equal(t, []string{"dune"}, repo.frags)

	_, err = svc.SearchReviews(ctx, "dune", "nonexistent_column")
	assert.ErrorIs(t, err, ErrInvalidSortKey)
	assert.Len(t, repo.keys, 1, "an invalid key must never reach the repository")
}

func TestService_Home(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, nil, nil, passTx{})

	home, err := svc.Home(context.Background())
	require.NoError(t, err)
	require.NotNil(t, home)
	assert.Equal(t, []int{DefaultLimit, DefaultLimit}, repo.limits)
}

type oneBook struct{ book.Repository }

func (oneBook) FindByID(_ context.Context, id uint) (*book.Book, error) {
	if id != 1 {
		return nil, book.ErrBookNotFound
	}
	return &book.Book{ID: 1, Title: "Dune"}, nil
}

type noReview struct{ review.Repository }

func (noReview) FindByBookID(context.Context, uint) (*review.Review, error) { return nil, nil }

type twoNotes struct{ note.Repository }

func (twoNotes) ListByBookID(_ context.Context, bookID uint) ([]*note.Note, error) {
	return []*note.Note{{ID: 1, BookID: bookID, Body: "a"}, {ID: 2, BookID: bookID, Body: "b"}}, nil
}

func TestService_Detail(t *testing.T) {
	svc := NewService(&fakeRepo{}, oneBook{}, noReview{}, twoNotes{}, passTx{})
	ctx := context.Background()

	d, err := svc.Detail(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune", d.Book.Title)
	assert.Nil(t, d.Review)
	assert.Len(t, d.Notes, 2)

	_, err = svc.Detail(ctx, 2)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}
