package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{2, 5, 2, 5},
		{1, 500, 1, MaxLimit},
	}
	for _, tc := range cases {
		p, l := NormalizePage(tc.page, tc.limit)
		assert.Equal(t, tc.wantPage, p)
		assert.Equal(t, tc.wantLimit, l)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 20, Offset(3, 10))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Total: 0, Page: 1, Limit: 10, TotalPages: 0}, NewPagination(0, 1, 10))
	assert.Equal(t, 3, NewPagination(21, 1, 10).TotalPages)
	assert.Equal(t, 2, NewPagination(20, 1, 10).TotalPages)
	assert.Equal(t, 0, NewPagination(5, 1, 0).TotalPages)
}
