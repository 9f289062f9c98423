package jira

import (
	"sort"
	"strings"
)

// SearchQuery selects the tickets listed by jt list.
type SearchQuery struct {
	AssigneeID string // empty means the current user
	ShowAll    bool   // include tickets outside open sprints
	ShowDone   bool   // resolved tickets instead of unresolved ones
	SortBy     string // id, title or created; anything else sorts by last update
}

var sortFields = map[string]string{
	"id":      "key",
	"title":   "summary",
	"created": "created",
}

// SortKeys lists the accepted SortBy values.
func SortKeys() []string {
	keys := make([]string, 0, len(sortFields))
	for k := range sortFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JQL builds the query. Clauses always appear in the order assignee,
// resolution, sprint, ordering.
func (q SearchQuery) JQL() string {
	clauses := make([]string, 0, 3)
	if q.AssigneeID != "" {
		clauses = append(clauses, "assignee = '"+q.AssigneeID+"'")
	} else {
		clauses = append(clauses, "assignee in (currentUser())")
	}
	if q.ShowDone {
		clauses = append(clauses, "resolution is not EMPTY")
	} else {
		clauses = append(clauses, "resolution is EMPTY")
	}
	if !q.ShowAll {
		clauses = append(clauses, "sprint in openSprints()")
	}

	order := "ORDER BY updated DESC"
	if f, ok := sortFields[q.SortBy]; ok {
		order = "ORDER BY " + f + " ASC"
	}
	return strings.Join(clauses, " AND ") + " " + order
}

// listFields are always fetched for list output.
var listFields = []string{"key", "summary", "status"}

// BuildSearchQuery returns the JQL and field list for q. spFieldID is
// appended to the fields when the site has a Story Points field.
func BuildSearchQuery(q SearchQuery, spFieldID string) (string, []string) {
	fields := append([]string(nil), listFields...)
	if spFieldID != "" {
		fields = append(fields, spFieldID)
	}
	return q.JQL(), fields
}

// recentTicketJQL finds the user's most recently touched ticket.
const recentTicketJQL = "assignee in (currentUser()) ORDER BY updated DESC"
