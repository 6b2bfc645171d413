package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	cursor := Cursor{CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 123, time.UTC), ID: uuid.New()}
	parsed, err := ParseCursor(EncodeCursor(cursor))
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, cursor.CreatedAt.Equal(parsed.CreatedAt))
	assert.Equal(t, cursor.ID, parsed.ID)

	empty, err := ParseCursor("  ")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = ParseCursor("!!!")
	assert.ErrorIs(t, err, errMalformedCursor)

	_, err = ParseCursor("c2hvcnQ")
	assert.ErrorIs(t, err, errMalformedCursor)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, MaxLimit, NormalizeLimit(1000))
	assert.Equal(t, 11, LimitWithBuffer(10))
}

func TestWindow(t *testing.T) {
	cases := []struct {
		current, total int
		want           []int
	}{
		{1, 0, []int{}},
		{2, 5, []int{1, 2, 3, 4, 5}},
		{1, 10, []int{1, 2, 3, 4, Ellipsis, 10}},
		{3, 10, []int{1, 2, 3, 4, Ellipsis, 10}},
		{8, 10, []int{1, Ellipsis, 7, 8, 9, 10}},
		{10, 10, []int{1, Ellipsis, 7, 8, 9, 10}},
		{5, 10, []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}},
		{99, 10, []int{1, Ellipsis, 7, 8, 9, 10}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Window(tc.current, tc.total), "page %d of %d", tc.current, tc.total)
	}
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(PageParams{Page: 2, PageSize: 0}, 25)
	assert.Equal(t, DefaultPageSize, info.PageSize)
	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.True(t, info.HasPrev)
	assert.Equal(t, []int{1, 2, 3}, info.Window)

	assert.Equal(t, MaxPageSize, PageParams{PageSize: 500}.Normalize().PageSize)
	assert.Equal(t, 24, PageParams{Page: 3, PageSize: 12}.Offset())

	empty := NewPageInfo(PageParams{}, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestSplitPage(t *testing.T) {
	rows := []int{1, 2, 3, 4}

	page, more := SplitPage(rows, 3)
	assert.Equal(t, []int{1, 2, 3}, page)
	assert.True(t, more)

	page, more = SplitPage(rows[:2], 3)
	assert.Equal(t, []int{1, 2}, page)
	assert.False(t, more)
}
