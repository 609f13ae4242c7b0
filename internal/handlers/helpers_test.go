package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		query      string
		wantOffset int
		wantLimit  int
	}{
		{query: "", wantOffset: 0, wantLimit: defaultPageSize},
		{query: "page=3&limit=10", wantOffset: 20, wantLimit: 10},
		{query: "page=-4&limit=0", wantOffset: 0, wantLimit: defaultPageSize},
		{query: "page=2&limit=500", wantOffset: maxPageSize, wantLimit: maxPageSize},
		{query: "page=abc", wantOffset: 0, wantLimit: defaultPageSize},
		{query: "page=9223372036854775807&limit=100", wantOffset: (maxPage - 1) * 100, wantLimit: 100},
		{query: "page=4611686018427387904&limit=2", wantOffset: (maxPage - 1) * 2, wantLimit: 2},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/posts?"+tt.query, nil)
			c := e.NewContext(req, httptest.NewRecorder())

			offset, limit := pagination(c)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
			assert.GreaterOrEqual(t, offset, 0)
		})
	}
}
