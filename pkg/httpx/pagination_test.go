package httpx

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePageParams(t *testing.T) {
	t.Parallel()

	limits := PageLimits{Default: 15, Min: 1, Max: 100}

	t.Run("defaults when absent", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/decks", nil)
		p := ParsePageParams(r, limits)
		require.Equal(t, int64(1), p.Page)
		require.Equal(t, int64(15), p.PerPage)
	})

	t.Run("reads valid values", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/decks?page=3&per_page=25", nil)
		p := ParsePageParams(r, limits)
		require.Equal(t, int64(3), p.Page)
		require.Equal(t, int64(25), p.PerPage)
	})

	t.Run("clamps per_page to bounds", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?per_page=5000", nil)
		require.Equal(t, int64(100), ParsePageParams(r, limits).PerPage)

		r = httptest.NewRequest("GET", "/?per_page=0", nil)
		require.Equal(t, int64(1), ParsePageParams(r, limits).PerPage)

		r = httptest.NewRequest("GET", "/?per_page=-3", nil)
		require.Equal(t, int64(1), ParsePageParams(r, limits).PerPage)
	})

	t.Run("garbage falls back to defaults", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?page=abc&per_page=xyz", nil)
		p := ParsePageParams(r, limits)
		require.Equal(t, int64(1), p.Page)
		require.Equal(t, int64(15), p.PerPage)
	})
}

func TestNewPageMeta(t *testing.T) {
	t.Parallel()

	t.Run("single full page", func(t *testing.T) {
		m := NewPageMeta(PageParams{Page: 1, PerPage: 10}, 10)
		require.Equal(t, int64(1), m.LastPage)
		require.Equal(t, int64(1), m.From)
		require.Equal(t, int64(10), m.To)
		require.False(t, m.HasMorePages)
	})

	t.Run("empty result set", func(t *testing.T) {
		m := NewPageMeta(PageParams{Page: 1, PerPage: 10}, 0)
		require.Equal(t, int64(1), m.LastPage)
		require.Zero(t, m.From)
		require.Zero(t, m.To)
		require.False(t, m.HasMorePages)
	})

	t.Run("page past the end", func(t *testing.T) {
		m := NewPageMeta(PageParams{Page: 9, PerPage: 10}, 25)
		require.Zero(t, m.From)
		require.Zero(t, m.To)
		require.False(t, m.HasMorePages)
	})

	// Walking every page of any dataset must cover each item exactly once,
	// and has_more_pages must be true everywhere except the last page.
	t.Run("pages partition the dataset", func(t *testing.T) {
		for _, tc := range []struct{ total, perPage int64 }{
			{0, 10}, {1, 10}, {9, 10}, {10, 10}, {11, 10}, {25, 7}, {100, 1}, {3, 100},
		} {
			var covered int64
			m := NewPageMeta(PageParams{Page: 1, PerPage: tc.perPage}, tc.total)
			for page := int64(1); page <= m.LastPage; page++ {
				m = NewPageMeta(PageParams{Page: page, PerPage: tc.perPage}, tc.total)
				if m.From > 0 {
					covered += m.To - m.From + 1
				}
				require.Equal(t, page < m.LastPage, m.HasMorePages,
					"total=%d per_page=%d page=%d", tc.total, tc.perPage, page)
			}
			require.Equal(t, tc.total, covered, "total=%d per_page=%d", tc.total, tc.perPage)
		}
	})
}
