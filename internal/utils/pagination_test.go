package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	first := Paginate(items, PaginationParams{Page: 1, Limit: 2})
	assert.Equal(t, []int{1, 2}, first.Data)
	assert.Equal(t, int64(5), first.Total)
	assert.Equal(t, 3, first.TotalPages)

	last := Paginate(items, PaginationParams{Page: 3, Limit: 2})
	assert.Equal(t, []int{5}, last.Data)

	beyond := Paginate(items, PaginationParams{Page: 9, Limit: 2})
	assert.Equal(t, []int{}, beyond.Data)
}
