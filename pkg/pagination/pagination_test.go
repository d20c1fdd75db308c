package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitOffset(t *testing.T) {
	t.Parallel()

	limit, offset := LimitOffset(1, 20)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = LimitOffset(3, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	// Page numbers below 1 clamp to the first page.
	_, offset = LimitOffset(0, 10)
	assert.Equal(t, 0, offset)
}

func TestNewMeta(t *testing.T) {
	t.Parallel()

	// 13 rows at 10 per page: two pages, both flagged as paginated.
	page1 := NewMeta(1, 10, 13)
	assert.Equal(t, 2, page1.TotalPages)
	assert.True(t, page1.IsPaginated)

	page2 := NewMeta(2, 10, 13)
	assert.Equal(t, 13, page2.Total)
	assert.True(t, page2.IsPaginated)

	single := NewMeta(1, 20, 13)
	assert.Equal(t, 1, single.TotalPages)
	assert.False(t, single.IsPaginated)

	empty := NewMeta(1, 20, 0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.IsPaginated)
}
