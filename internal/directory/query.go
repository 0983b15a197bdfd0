package directory

import (
	"strings"
	"time"
)

// FilterSet holds the list-view filter values. An empty field is inactive.
// All non-empty fields are ANDed together; single-field entry is a UI gating
// concern the engine does not enforce.
type FilterSet struct {
	Organization string
	Username     string
	Email        string
	PhoneNumber  string
	Status       string
	Date         string
}

func (f FilterSet) IsEmpty() bool {
	return f.Organization == "" && f.Username == "" && f.Email == "" &&
		f.PhoneNumber == "" && f.Status == "" && f.Date == ""
}

// ActiveField returns the name of the field currently holding a value, so a
// client can disable the others until it is cleared. With several fields
// populated the first in column order wins.
func (f FilterSet) ActiveField() string {
	switch {
	case f.Organization != "":
		return "organization"
	case f.Username != "":
		return "username"
	case f.Email != "":
		return "email"
	case f.PhoneNumber != "":
		return "phone_number"
	case f.Status != "":
		return "status"
	case f.Date != "":
		return "date"
	}
	return ""
}

// ApplyFilters returns the subsequence of all where every non-empty filter
// field matches. Text fields match by case-insensitive substring, phone by
// plain substring, status by case-insensitive equality and date by calendar
// day. An empty FilterSet returns the input unchanged.
func ApplyFilters(all []UserSummary, filters FilterSet) []UserSummary {
	result := all

	if filters.Organization != "" {
		result = keep(result, func(u UserSummary) bool {
			return containsFold(u.Organization, filters.Organization)
		})
	}

	if filters.Username != "" {
		result = keep(result, func(u UserSummary) bool {
			return containsFold(u.Username, filters.Username)
		})
	}

	if filters.Email != "" {
		result = keep(result, func(u UserSummary) bool {
			return containsFold(u.Email, filters.Email)
		})
	}

	if filters.PhoneNumber != "" {
		result = keep(result, func(u UserSummary) bool {
			return strings.Contains(u.PhoneNumber, filters.PhoneNumber)
		})
	}

	if filters.Status != "" {
		result = keep(result, func(u UserSummary) bool {
			return strings.EqualFold(string(u.Status), filters.Status)
		})
	}

	if filters.Date != "" {
		result = keep(result, func(u UserSummary) bool {
			return sameCalendarDay(u.DateJoined, filters.Date)
		})
	}

	return result
}

// Paginate slices items into the 1-based page pageIndex of size pageSize and
// returns it with the total page count. Out-of-range indices yield an empty
// page; clamping is the caller's responsibility.
func Paginate(items []UserSummary, pageSize, pageIndex int) ([]UserSummary, int) {
	if pageSize <= 0 {
		return []UserSummary{}, 0
	}

	pageCount := (len(items) + pageSize - 1) / pageSize

	if pageIndex < 1 {
		return []UserSummary{}, pageCount
	}

	start := (pageIndex - 1) * pageSize
	if start >= len(items) {
		return []UserSummary{}, pageCount
	}

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], pageCount
}

func keep(users []UserSummary, match func(UserSummary) bool) []UserSummary {
	result := make([]UserSummary, 0, len(users))
	for _, u := range users {
		if match(u) {
			result = append(result, u)
		}
	}
	return result
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// dateLayouts are the formats the upstream documents have been seen to use
// for dateJoined, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sameCalendarDay(a, b string) bool {
	ta, okA := parseDate(a)
	tb, okB := parseDate(b)
	if !okA || !okB {
		return false
	}
	ya, ma, da := ta.Date()
	yb, mb, db := tb.Date()
	return ya == yb && ma == mb && da == db
}
