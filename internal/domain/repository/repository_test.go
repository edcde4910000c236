package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PageSize: DefaultPageSize}, NewPagination(0, 0))
	assert.Equal(t, Pagination{Page: 3, PageSize: MaxPageSize}, NewPagination(3, 500))

	p := NewPagination(3, 10)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())
}

func TestNewPagedResult(t *testing.T) {
	r := NewPagedResult([]string{"a", "b"}, 21, NewPagination(1, 10))
	assert.Equal(t, 3, r.TotalPages)
	assert.Equal(t, int64(21), r.Total)
	assert.True(t, r.HasNext)

	last := NewPagedResult([]string{"c"}, 21, NewPagination(3, 10))
	assert.False(t, last.HasNext)

	empty := NewPagedResult[string](nil, 0, NewPagination(1, 10))
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)

	zero := NewPagedResult([]string{"a"}, 1, Pagination{Page: 1})
	assert.Equal(t, 0, zero.TotalPages)
}
