package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtcli/jt/internal/jira"
)

const ticketJSON = `{
	"id": "10001",
	"key": "PROJ-1",
	"fields": {
		"summary": "Fix login",
		"status": {"name": "In Progress"},
		"assignee": null,
		"reporter": {"displayName": "Ada"},
		"comment": {"comments": [], "total": 2},
		"description": {"type": "doc", "version": 1, "content": [
			{"type": "paragraph", "content": [{"type": "text", "text": "Steps here"}]}
		]},
		"customfield_10016": 5
	}
}`

func TestGetDetails(t *testing.T) {
	f := newFakeJira(t)
	f.on(http.MethodGet, "/rest/api/3/issue/PROJ-1", 200, ticketJSON)
	a, out := newTestApp(t, f)

	require.NoError(t, a.runGet(context.Background(), "proj-1", ""))

	got := out.String()
	assert.Contains(t, got, "--- Ticket Details ---")
	assert.Contains(t, got, "ID           : PROJ-1\n")
	assert.Contains(t, got, "Title        : Fix login\n")
	assert.Contains(t, got, "URL          : "+f.URL+"/browse/PROJ-1\n")
	assert.Contains(t, got, "Status       : In Progress\n")
	assert.Contains(t, got, "Assignee     : Unassigned\n")
	assert.Contains(t, got, "Reporter     : Ada\n")
	assert.Contains(t, got, "Story Points : 5\n")
	assert.Contains(t, got, "Comments     : 2\n")
	assert.Contains(t, got, "--- Description ---")
	assert.Contains(t, got, "Steps here")
	assert.NotContains(t, got, "Description  :")

	reqs := f.seen(http.MethodGet, "/rest/api/3/issue/PROJ-1")
	require.Len(t, reqs, 1)
	assert.Equal(t, "summary,status,assignee,reporter,comment,description,"+spField, reqs[0].Query["fields"][0])
}

func TestGetWithoutDescriptionOrPoints(t *testing.T) {
	f := newFakeJira(t)
	f.on(http.MethodGet, "/rest/api/3/field", 200, `[{"id":"summary","name":"Summary"}]`)
	f.on(http.MethodGet, "/rest/api/3/issue/PROJ-2", 200,
		`{"key":"PROJ-2","fields":{"summary":"Bare","assignee":{"displayName":"Bob"}}}`)
	a, out := newTestApp(t, f)

	require.NoError(t, a.runGet(context.Background(), "PROJ-2", ""))
	got := out.String()
	assert.Contains(t, got, "Assignee     : Bob\n")
	assert.Contains(t, got, "Story Points : Not set\n")
	assert.Contains(t, got, "No description found.")
	assert.NotContains(t, got, "Reporter")

	reqs := f.seen(http.MethodGet, "/rest/api/3/issue/PROJ-2")
	require.Len(t, reqs, 1)
	assert.Equal(t, "summary,status,assignee,reporter,comment,description", reqs[0].Query["fields"][0])
}

func TestGetField(t *testing.T) {
	f := newFakeJira(t)
	f.on(http.MethodGet, "/rest/api/3/issue/PROJ-1", 200, ticketJSON)

	t.Run("case insensitive", func(t *testing.T) {
		a, out := newTestApp(t, f)
		require.NoError(t, a.runGet(context.Background(), "PROJ-1", "story points"))
		assert.Equal(t, "5\n", out.String())
	})

	t.Run("description", func(t *testing.T) {
		a, out := newTestApp(t, f)
		require.NoError(t, a.runGet(context.Background(), "PROJ-1", "Description"))
		assert.Equal(t, "Steps here\n", out.String())
	})

	t.Run("unknown", func(t *testing.T) {
		a, out := newTestApp(t, f)
		err := a.runGet(context.Background(), "PROJ-1", "priority")
		require.Error(t, err)
		assert.Equal(t, codeUsage, errorCode(err))
		assert.Contains(t, err.Error(), "Field 'priority' not found.")
		assert.Contains(t, err.Error(), "Available fields: ID, Title, URL, Status, Assignee, Reporter, Story Points, Comments, Description")
		assert.Empty(t, out.String())
	})
}

func TestGetJSON(t *testing.T) {
	f := newFakeJira(t)
	f.on(http.MethodGet, "/rest/api/3/issue/PROJ-1", 200, ticketJSON)
	a, out := newTestApp(t, f)
	a.json = true

	require.NoError(t, a.runGet(context.Background(), "PROJ-1", ""))

	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	assert.Equal(t, "PROJ-1", v["id"])
	assert.Equal(t, "Unassigned", v["assignee"])
	assert.Equal(t, 5.0, v["story_points"])
	assert.Equal(t, 2.0, v["comments"])
}

func TestGetMissingTicket(t *testing.T) {
	f := newFakeJira(t)
	a, _ := newTestApp(t, f)

	err := a.runGet(context.Background(), "PROJ-404", "")
	var reqErr *jira.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Equal(t, codeRemote, errorCode(err))
}

const searchJSON = `{"issues":[
	{"key":"PROJ-1","fields":{"summary":"A","status":{"name":"To Do"},"customfield_10016":3}},
	{"key":"PROJ-22","fields":{"summary":"Longer title","status":{"name":"Done"}}}
]}`

func TestListTable(t *testing.T) {
	f := newFakeJira(t)
	f.on(http.MethodGet, "/rest/api/3/search/jql", 200, searchJSON)
	a, out := newTestApp(t, f)

	require.NoError(t, a.runList(context.Background(), "", jira.SearchQuery{}))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"ID", "Title", "Points", "Status"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"PROJ-1", "A", "3", "To", "Do"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"PROJ-22", "Longer", "title", "N/A", "Done"}, strings.Fields(lines[3]))

	reqs := f.seen(http.MethodGet, "/rest/api/3/search/jql")
	require.Len(t, reqs, 1)
	assert.Equal(t, jira.SearchQuery{}.JQL(), reqs[0].Query["jql"][0])
	assert.Equal(t, "key,summary,status,"+spField, reqs[0].Query["fields"][0])
}

func TestListForUser(t *testing.T) {
	f := newFakeJira(t)
	f.on(http.MethodGet, "/rest/api/3/user/search", 200, `[{"accountId":"acc-2","displayName":"Bob"}]`)
	f.on(http.MethodGet, "/rest/api/3/search/jql", 200, `{"issues":[]}`)
	a, out := newTestApp(t, f)

	q := jira.SearchQuery{ShowDone: true, SortBy: "title"}
	require.NoError(t, a.runList(context.Background(), "bob", q))
	assert.Equal(t, "No tickets found.\n", out.String())

	q.AssigneeID = "acc-2"
	reqs := f.seen(http.MethodGet, "/rest/api/3/search/jql")
	require.Len(t, reqs, 1)
	assert.Equal(t, q.JQL(), reqs[0].Query["jql"][0])
	assert.Equal(t, "bob", f.seen(http.MethodGet, "/rest/api/3/user/search")[0].Query["query"][0])
}

func TestListUnknownUser(t *testing.T) {
	f := newFakeJira(t)
	f.on(http.MethodGet, "/rest/api/3/user/search", 200, `[]`)
	a, _ := newTestApp(t, f)

	err := a.runList(context.Background(), "nobody", jira.SearchQuery{})
	assert.EqualError(t, err, "No user found matching 'nobody'")
	assert.Equal(t, codeNotFound, errorCode(err))
	assert.Empty(t, f.seen(http.MethodGet, "/rest/api/3/search/jql"))
}

func TestListJSON(t *testing.T) {
	f := newFakeJira(t)
	f.on(http.MethodGet, "/rest/api/3/search/jql", 200, searchJSON)
	a, out := newTestApp(t, f)
	a.json = true

	require.NoError(t, a.runList(context.Background(), "", jira.SearchQuery{}))
	var rows []listRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Points)
	assert.Equal(t, 3.0, *rows[0].Points)
	assert.Nil(t, rows[1].Points)
}

func TestListDiscoveryFailure(t *testing.T) {
	f := newFakeJira(t)
	f.on(http.MethodGet, "/rest/api/3/field", http.StatusUnauthorized, `{"errorMessages":["bad token"]}`)
	a, _ := newTestApp(t, f)

	err := a.runList(context.Background(), "", jira.SearchQuery{})
	require.Error(t, err)
	assert.Equal(t, codeDiscovery, errorCode(err))
}

func TestValidateSort(t *testing.T) {
	for _, s := range []string{"", "id", "title", "created"} {
		assert.NoError(t, validateSort(s), s)
	}
	err := validateSort("priority")
	require.Error(t, err)
	assert.Equal(t, codeUsage, errorCode(err))
}
