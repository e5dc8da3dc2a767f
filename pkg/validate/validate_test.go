package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

func TestRequired(t *testing.T) {
	v, err := Required("title", "  Dune \n")
	require.NoError(t, err)
	assert.Equal(t, "Dune", v)

	_, err = Required("title", "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestID(t *testing.T) {
	id, err := ID("id", " 42 ")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "0", "-3", "abc", "1.5"} {
		_, err := ID("id", raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestLimit(t *testing.T) {
	n, err := Limit("", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = Limit("7", 3)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = Limit("0", 3)
	assert.Error(t, err)
}

func TestRating(t *testing.T) {
	for r := MinRating; r <= MaxRating; r++ {
		assert.NoError(t, Rating(r))
	}
	assert.Error(t, Rating(0))
	assert.Error(t, Rating(6))
}

func TestDate(t *testing.T) {
	d, err := Date("date_read", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = Date("date_read", "01/02/2024")
	assert.Error(t, err)
	_, err = Date("date_read", "")
	assert.Error(t, err)
}

func TestCalendarDate(t *testing.T) {
	in := time.Date(2023, 5, 6, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 5, 6, 0, 0, 0, 0, time.UTC), CalendarDate(in))
}

func TestMaxLen(t *testing.T) {
	assert.NoError(t, MaxLen("title", "abc", 3))
	assert.Error(t, MaxLen("title", "abcd", 3))
}
