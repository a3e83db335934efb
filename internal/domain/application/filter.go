package application

import (
	"strings"

	"incorporation-portal/pkg/search"
)

// Query narrows a listing. Empty Search and Status "" or "all" match everything.
type Query struct {
	Search string
	Status string
}

func (q Query) statusFilter() (Status, bool) {
	s := strings.TrimSpace(q.Status)
	if s == "" || strings.EqualFold(s, StatusAll) {
		return "", false
	}
	st, _ := ParseStatus(s)
	return st, true
}

// Filter keeps the views matching both the search term and the status filter.
func Filter(views []View, q Query) []View {
	term := search.Term(q.Search)
	status, byStatus := q.statusFilter()

	out := make([]View, 0, len(views))
	for _, v := range views {
		if byStatus && v.Status != status {
			continue
		}
		if !search.Any(term, v.DisplayName, v.ApplicationID, v.ContactPerson, v.Email) {
			continue
		}
		out = append(out, v)
	}
	return out
}
