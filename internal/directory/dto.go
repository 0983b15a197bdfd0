package directory

import (
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListQuery is the parsed form of the listing request's query string.
type ListQuery struct {
	Filters  FilterSet
	Page     int
	PageSize int
}

// ParseListQuery reads filter and pagination parameters. Page defaults to 1
// and page_size to DefaultPageSize; nonsense values fall back to defaults so
// a bad query degrades instead of erroring.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{
		Filters: FilterSet{
			Organization: values.Get("organization"),
			Username:     values.Get("username"),
			Email:        values.Get("email"),
			PhoneNumber:  values.Get("phone_number"),
			Status:       values.Get("status"),
			Date:         values.Get("date"),
		},
		Page:     1,
		PageSize: DefaultPageSize,
	}

	if raw := values.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			q.Page = page
		}
	}

	if raw := values.Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			if size > MaxPageSize {
				size = MaxPageSize
			}
			q.PageSize = size
		}
	}

	return q
}

// ListResponse is the listing payload: one page of the filtered directory
// plus the pagination frame the client renders from.
type ListResponse struct {
	Data         []UserSummary `json:"data"`
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
	PageCount    int           `json:"page_count"`
	Total        int           `json:"total"`
	ActiveFilter string        `json:"active_filter,omitempty"`
}

// DetailResponse carries a detail record together with where it came from,
// so the client can tell a fresh record from a cached snapshot.
type DetailResponse struct {
	Data   *UserDetail `json:"data"`
	Source Source      `json:"source"`
}
