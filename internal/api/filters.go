package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tracklet/tracklet-api/internal/domain"
	"github.com/tracklet/tracklet-api/internal/store"
)

// Query parameter names accepted by the task list endpoint.
const (
	paramCompleted             = "completed"
	paramCreatedOn             = "created_on"
	paramCreatedAfter          = "created_after"
	paramCreatedBefore         = "created_before"
	paramDescription           = "description"
	paramDescriptionContains   = "description__contains"
	paramDescriptionStartsWith = "description__startswith"
	paramDescriptionRegex      = "description__regex"
	paramSearch                = "search"
	paramOrdering              = "ordering"
	paramPage                  = "page"
)

const dateLayout = "2006-01-02"

// ParseTaskFilter translates the task list endpoint's query parameters into
// a store.TaskFilter. Invalid values (bad booleans, malformed dates,
// unknown ordering fields) produce validation errors that map to 400.
func ParseTaskFilter(values url.Values) (store.TaskFilter, error) {
	filter := store.TaskFilter{
		Page:     1,
		PageSize: store.DefaultPageSize,
	}

	if v := values.Get(paramCompleted); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return filter, domain.NewValidationError(paramCompleted,
				"must be a boolean", domain.ErrValidation)
		}
		filter.Completed = &completed
	}

	var err error
	if filter.CreatedOn, err = parseDateParam(values, paramCreatedOn); err != nil {
		return filter, err
	}
	if filter.CreatedAfter, err = parseDateParam(values, paramCreatedAfter); err != nil {
		return filter, err
	}
	if filter.CreatedBefore, err = parseDateParam(values, paramCreatedBefore); err != nil {
		return filter, err
	}

	filter.Description = values.Get(paramDescription)
	filter.DescriptionStartsWith = values.Get(paramDescriptionStartsWith)
	filter.DescriptionRegex = values.Get(paramDescriptionRegex)

	// `search` is an alias for the substring filter; an explicit
	// description__contains takes precedence when both are present.
	filter.DescriptionContains = values.Get(paramDescriptionContains)
	if filter.DescriptionContains == "" {
		filter.DescriptionContains = values.Get(paramSearch)
	}

	if v := values.Get(paramOrdering); v != "" {
		ordering, err := parseOrdering(v)
		if err != nil {
			return filter, err
		}
		filter.Ordering = ordering
	}

	if filter.Page, err = parsePageParam(values); err != nil {
		return filter, err
	}

	return filter, nil
}

func parsePageParam(values url.Values) (int, error) {
	v := values.Get(paramPage)
	if v == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(v)
	if err != nil || page < 1 {
		return 1, domain.NewValidationError(paramPage,
			"must be a positive integer", domain.ErrValidation)
	}
	return page, nil
}

func parseDateParam(values url.Values, name string) (*time.Time, error) {
	v := values.Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return nil, domain.NewValidationError(name,
			"must be a date in YYYY-MM-DD format", domain.ErrValidation)
	}
	return &t, nil
}

// parseOrdering parses a comma-separated ordering expression, e.g.
// "-creation_time,updated_at". Fields outside the whitelist are rejected
// here so they never reach the store.
func parseOrdering(expr string) ([]store.TaskOrdering, error) {
	var ordering []store.TaskOrdering
	for _, term := range strings.Split(expr, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		desc := strings.HasPrefix(term, "-")
		field := strings.TrimPrefix(term, "-")

		switch field {
		case store.OrderByCreationTime, store.OrderByUpdatedAt:
		default:
			return nil, domain.NewValidationError(paramOrdering,
				fmt.Sprintf("cannot order by %q", field), domain.ErrValidation)
		}

		ordering = append(ordering, store.TaskOrdering{Field: field, Desc: desc})
	}
	return ordering, nil
}

// ParseUserFilter translates the user list endpoint's query parameters.
func ParseUserFilter(values url.Values) (store.UserFilter, error) {
	filter := store.UserFilter{
		Username: values.Get("username"),
		Email:    values.Get("email"),
		PageSize: store.DefaultPageSize,
	}

	var err error
	if filter.Page, err = parsePageParam(values); err != nil {
		return filter, err
	}
	return filter, nil
}

// pageOutOfRange reports whether the requested page falls past the last page
// of the result set. The first page is always in range, even when empty.
func pageOutOfRange(page, pageSize, totalCount int) bool {
	if page <= 1 {
		return false
	}
	if pageSize <= 0 {
		pageSize = store.DefaultPageSize
	}
	lastPage := (totalCount + pageSize - 1) / pageSize
	if lastPage < 1 {
		lastPage = 1
	}
	return page > lastPage
}

// pageLink rebuilds the request URL as an absolute URL with the page
// parameter set to page. Returns nil when the target page is out of range,
// producing a JSON null in the pagination envelope.
func pageLink(r *http.Request, page, pageSize, totalCount int) *string {
	if page < 1 || pageOutOfRange(page, pageSize, totalCount) {
		return nil
	}

	link := *r.URL
	link.Host = r.Host
	link.Scheme = "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		link.Scheme = "https"
	}

	q := link.Query()
	q.Set(paramPage, strconv.Itoa(page))
	link.RawQuery = q.Encode()
	s := link.String()
	return &s
}
