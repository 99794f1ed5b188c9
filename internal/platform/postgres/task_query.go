package postgres

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tracklet/tracklet-api/internal/store"
)

// orderableTaskColumns maps the public ordering field names to the columns
// they sort by. Anything outside this whitelist is rejected before it can
// reach the query text.
var orderableTaskColumns = map[string]string{
	store.OrderByCreationTime: "created_at",
	store.OrderByUpdatedAt:    "updated_at",
}

// defaultTaskOrdering lists incomplete tasks first, then newest first.
const defaultTaskOrdering = "completed ASC, created_at DESC, updated_at DESC"

// buildTaskPredicates translates a TaskFilter into a WHERE clause and its
// positional arguments. The user_id predicate always comes first, which is
// what scopes every list to its owner.
func buildTaskPredicates(userID uuid.UUID, filter store.TaskFilter) (string, []any, error) {
	args := []any{userID}
	conds := []string{"user_id = $1"}

	next := func(arg any) string {
		args = append(args, arg)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Description != "" {
		conds = append(conds, "LOWER(description) = LOWER("+next(filter.Description)+")")
	}
	if filter.DescriptionContains != "" {
		conds = append(conds, "description ILIKE "+next("%"+escapeLike(filter.DescriptionContains)+"%"))
	}
	if filter.DescriptionStartsWith != "" {
		conds = append(conds, "description ILIKE "+next(escapeLike(filter.DescriptionStartsWith)+"%"))
	}
	if filter.DescriptionRegex != "" {
		// Case-insensitive POSIX regex; an invalid pattern surfaces as a
		// query error from the database.
		conds = append(conds, "description ~* "+next(filter.DescriptionRegex))
	}
	if filter.Completed != nil {
		conds = append(conds, "completed = "+next(*filter.Completed))
	}
	if filter.CreatedOn != nil {
		start := startOfDay(*filter.CreatedOn)
		conds = append(conds, "created_at >= "+next(start))
		conds = append(conds, "created_at < "+next(start.AddDate(0, 0, 1)))
	}
	if filter.CreatedAfter != nil {
		conds = append(conds, "created_at >= "+next(startOfDay(*filter.CreatedAfter)))
	}
	if filter.CreatedBefore != nil {
		// Inclusive date bound: everything before the end of that day.
		conds = append(conds, "created_at < "+next(startOfDay(*filter.CreatedBefore).AddDate(0, 0, 1)))
	}

	return strings.Join(conds, " AND "), args, nil
}

// buildTaskOrdering translates ordering terms into an ORDER BY clause,
// rejecting any field not in the whitelist.
func buildTaskOrdering(ordering []store.TaskOrdering) (string, error) {
	if len(ordering) == 0 {
		return defaultTaskOrdering, nil
	}

	terms := make([]string, 0, len(ordering))
	for _, o := range ordering {
		col, ok := orderableTaskColumns[o.Field]
		if !ok {
			return "", fmt.Errorf("%w: cannot order by %q", store.ErrInvalidEntity, o.Field)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir)
	}
	return strings.Join(terms, ", "), nil
}

// pageWindow translates a 1-based page selection into LIMIT/OFFSET values,
// falling back to the first page and the default page size.
func pageWindow(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 {
		pageSize = store.DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}

// escapeLike escapes the LIKE metacharacters so user input matches
// literally inside ILIKE patterns.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// startOfDay truncates t to midnight UTC.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// itoa is a tiny alias used by predicate builders in this package.
func itoa(n int) string { return strconv.Itoa(n) }
