package api

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklet/tracklet-api/internal/store"
)

func TestParseTaskFilterDefaults(t *testing.T) {
	t.Parallel()

	filter, err := ParseTaskFilter(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, store.DefaultPageSize, filter.PageSize)
	assert.Nil(t, filter.Completed)
	assert.Empty(t, filter.Ordering)
}

func TestParseTaskFilterCompleted(t *testing.T) {
	t.Parallel()

	t.Run("true", func(t *testing.T) {
		filter, err := ParseTaskFilter(url.Values{"completed": {"true"}})
		require.NoError(t, err)
		require.NotNil(t, filter.Completed)
		assert.True(t, *filter.Completed)
	})

	t.Run("false", func(t *testing.T) {
		filter, err := ParseTaskFilter(url.Values{"completed": {"false"}})
		require.NoError(t, err)
		require.NotNil(t, filter.Completed)
		assert.False(t, *filter.Completed)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := ParseTaskFilter(url.Values{"completed": {"banana"}})
		assert.Error(t, err)
	})
}

func TestParseTaskFilterDates(t *testing.T) {
	t.Parallel()

	t.Run("valid dates", func(t *testing.T) {
		filter, err := ParseTaskFilter(url.Values{
			"created_on":     {"2024-03-15"},
			"created_after":  {"2024-01-01"},
			"created_before": {"2024-12-31"},
		})
		require.NoError(t, err)

		require.NotNil(t, filter.CreatedOn)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *filter.CreatedOn)
		require.NotNil(t, filter.CreatedAfter)
		require.NotNil(t, filter.CreatedBefore)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := ParseTaskFilter(url.Values{"created_on": {"15/03/2024"}})
		assert.Error(t, err)
	})
}

func TestParseTaskFilterDescription(t *testing.T) {
	t.Parallel()

	t.Run("exact and prefix filters", func(t *testing.T) {
		filter, err := ParseTaskFilter(url.Values{
			"description":             {"exact match"},
			"description__startswith": {"prefix"},
		})
		require.NoError(t, err)
		assert.Equal(t, "exact match", filter.Description)
		assert.Equal(t, "prefix", filter.DescriptionStartsWith)
	})

	t.Run("regex filter", func(t *testing.T) {
		filter, err := ParseTaskFilter(url.Values{
			"description__regex": {"^(buy|sell) .*"},
		})
		require.NoError(t, err)
		assert.Equal(t, "^(buy|sell) .*", filter.DescriptionRegex)
	})

	t.Run("search is an alias for contains", func(t *testing.T) {
		filter, err := ParseTaskFilter(url.Values{"search": {"groceries"}})
		require.NoError(t, err)
		assert.Equal(t, "groceries", filter.DescriptionContains)
	})

	t.Run("explicit contains wins over search", func(t *testing.T) {
		filter, err := ParseTaskFilter(url.Values{
			"search":                {"groceries"},
			"description__contains": {"report"},
		})
		require.NoError(t, err)
		assert.Equal(t, "report", filter.DescriptionContains)
	})
}

func TestParseTaskFilterOrdering(t *testing.T) {
	t.Parallel()

	t.Run("ascending and descending", func(t *testing.T) {
		filter, err := ParseTaskFilter(url.Values{
			"ordering": {"-creation_time,updated_at"},
		})
		require.NoError(t, err)

		require.Len(t, filter.Ordering, 2)
		assert.Equal(t, store.TaskOrdering{Field: store.OrderByCreationTime, Desc: true}, filter.Ordering[0])
		assert.Equal(t, store.TaskOrdering{Field: store.OrderByUpdatedAt, Desc: false}, filter.Ordering[1])
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := ParseTaskFilter(url.Values{"ordering": {"id"}})
		assert.Error(t, err)
	})

	t.Run("injection attempt rejected", func(t *testing.T) {
		_, err := ParseTaskFilter(url.Values{"ordering": {"created_at; DROP TABLE tasks"}})
		assert.Error(t, err)
	})
}

func TestParseTaskFilterPage(t *testing.T) {
	t.Parallel()

	t.Run("valid page", func(t *testing.T) {
		filter, err := ParseTaskFilter(url.Values{"page": {"3"}})
		require.NoError(t, err)
		assert.Equal(t, 3, filter.Page)
	})

	t.Run("zero page rejected", func(t *testing.T) {
		_, err := ParseTaskFilter(url.Values{"page": {"0"}})
		assert.Error(t, err)
	})

	t.Run("non-numeric page rejected", func(t *testing.T) {
		_, err := ParseTaskFilter(url.Values{"page": {"two"}})
		assert.Error(t, err)
	})
}

func TestParseUserFilter(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		filter, err := ParseUserFilter(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, store.DefaultPageSize, filter.PageSize)
	})

	t.Run("substring filters and page", func(t *testing.T) {
		filter, err := ParseUserFilter(url.Values{
			"username": {"ali"},
			"email":    {"@example.com"},
			"page":     {"2"},
		})
		require.NoError(t, err)
		assert.Equal(t, "ali", filter.Username)
		assert.Equal(t, "@example.com", filter.Email)
		assert.Equal(t, 2, filter.Page)
	})

	t.Run("invalid page rejected", func(t *testing.T) {
		_, err := ParseUserFilter(url.Values{"page": {"-1"}})
		assert.Error(t, err)
	})
}

func TestPageLink(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/api/tasks?completed=true&page=2", nil)

	t.Run("next page within range", func(t *testing.T) {
		link := pageLink(req, 3, 10, 25)
		require.NotNil(t, link)
		assert.Contains(t, *link, "page=3")
		assert.Contains(t, *link, "completed=true")
	})

	t.Run("links are absolute", func(t *testing.T) {
		link := pageLink(req, 1, 10, 25)
		require.NotNil(t, link)
		assert.True(t, strings.HasPrefix(*link, "http://example.com/api/tasks?"), *link)
	})

	t.Run("forwarded proto selects https", func(t *testing.T) {
		proxied := httptest.NewRequest("GET", "/api/tasks", nil)
		proxied.Header.Set("X-Forwarded-Proto", "https")
		link := pageLink(proxied, 1, 10, 25)
		require.NotNil(t, link)
		assert.True(t, strings.HasPrefix(*link, "https://"), *link)
	})

	t.Run("page past the end", func(t *testing.T) {
		assert.Nil(t, pageLink(req, 4, 10, 25))
	})

	t.Run("page before the start", func(t *testing.T) {
		assert.Nil(t, pageLink(req, 0, 10, 25))
	})

	t.Run("empty result set has a single page", func(t *testing.T) {
		assert.Nil(t, pageLink(req, 2, 10, 0))
		link := pageLink(req, 1, 10, 0)
		require.NotNil(t, link)
	})
}

func TestPageOutOfRange(t *testing.T) {
	t.Parallel()

	assert.False(t, pageOutOfRange(1, 10, 25))
	assert.False(t, pageOutOfRange(3, 10, 25))
	assert.True(t, pageOutOfRange(4, 10, 25))
	assert.False(t, pageOutOfRange(1, 10, 0), "the first page of an empty set is valid")
	assert.True(t, pageOutOfRange(2, 10, 0))
}
