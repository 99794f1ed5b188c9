package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklet/tracklet-api/internal/store"
)

func TestBuildTaskPredicates(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("always scoped to the owner", func(t *testing.T) {
		where, args, err := buildTaskPredicates(userID, store.TaskFilter{})
		require.NoError(t, err)
		assert.Equal(t, "user_id = $1", where)
		assert.Equal(t, []any{userID}, args)
	})

	t.Run("completed filter", func(t *testing.T) {
		completed := true
		where, args, err := buildTaskPredicates(userID, store.TaskFilter{Completed: &completed})
		require.NoError(t, err)
		assert.Equal(t, "user_id = $1 AND completed = $2", where)
		assert.Equal(t, []any{userID, true}, args)
	})

	t.Run("description filters", func(t *testing.T) {
		where, args, err := buildTaskPredicates(userID, store.TaskFilter{
			Description:           "exact",
			DescriptionContains:   "middle",
			DescriptionStartsWith: "front",
		})
		require.NoError(t, err)
		assert.Contains(t, where, "LOWER(description) = LOWER($2)")
		assert.Contains(t, where, "description ILIKE $3")
		assert.Contains(t, where, "description ILIKE $4")
		assert.Equal(t, []any{userID, "exact", "%middle%", "front%"}, args)
	})

	t.Run("regex filter is case-insensitive and parameterized", func(t *testing.T) {
		where, args, err := buildTaskPredicates(userID, store.TaskFilter{
			DescriptionRegex: "^(buy|sell) .*",
		})
		require.NoError(t, err)
		assert.Equal(t, "user_id = $1 AND description ~* $2", where)
		assert.Equal(t, []any{userID, "^(buy|sell) .*"}, args)
	})

	t.Run("like metacharacters escaped", func(t *testing.T) {
		_, args, err := buildTaskPredicates(userID, store.TaskFilter{
			DescriptionContains: "50%_done",
		})
		require.NoError(t, err)
		assert.Equal(t, `%50\%\_done%`, args[1])
	})

	t.Run("created_on spans one day", func(t *testing.T) {
		day := time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)
		where, args, err := buildTaskPredicates(userID, store.TaskFilter{CreatedOn: &day})
		require.NoError(t, err)
		assert.Contains(t, where, "created_at >= $2")
		assert.Contains(t, where, "created_at < $3")
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), args[1])
		assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), args[2])
	})

	t.Run("created_before is inclusive of that day", func(t *testing.T) {
		day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		where, args, err := buildTaskPredicates(userID, store.TaskFilter{CreatedBefore: &day})
		require.NoError(t, err)
		assert.Contains(t, where, "created_at < $2")
		assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), args[1])
	})
}

func TestBuildTaskOrdering(t *testing.T) {
	t.Parallel()

	t.Run("default ordering", func(t *testing.T) {
		clause, err := buildTaskOrdering(nil)
		require.NoError(t, err)
		assert.Equal(t, "completed ASC, created_at DESC, updated_at DESC", clause)
	})

	t.Run("explicit ordering", func(t *testing.T) {
		clause, err := buildTaskOrdering([]store.TaskOrdering{
			{Field: store.OrderByCreationTime, Desc: true},
			{Field: store.OrderByUpdatedAt},
		})
		require.NoError(t, err)
		assert.Equal(t, "created_at DESC, updated_at ASC", clause)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := buildTaskOrdering([]store.TaskOrdering{{Field: "id"}})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPageWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantLimit  int
		wantOffset int
	}{
		{"first page", 1, 10, 10, 0},
		{"second page", 2, 10, 10, 10},
		{"fifth page", 5, 10, 10, 40},
		{"zero page falls back to first", 0, 10, 10, 0},
		{"zero size falls back to default", 3, 0, store.DefaultPageSize, 2 * store.DefaultPageSize},
		{"negative values sanitized", -2, -5, store.DefaultPageSize, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := pageWindow(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
