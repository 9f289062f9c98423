package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jtcli/jt/internal/adf"
)

// NormalizeKey upper-cases a ticket reference ("proj-1" -> "PROJ-1").
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// GetIssue fetches a single issue with the given fields.
func (c *Client) GetIssue(ctx context.Context, key string, fields []string) (*Issue, error) {
	key = NormalizeKey(key)
	apiURL := c.apiURL("/issue/" + url.PathEscape(key))
	if len(fields) > 0 {
		apiURL += "?" + url.Values{"fields": {strings.Join(fields, ",")}}.Encode()
	}

	var issue Issue
	if err := c.get(ctx, "fetch ticket "+key, apiURL, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// SearchIssues runs a JQL search and returns the first page of results.
// maxResults <= 0 leaves the page size to the server.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) ([]Issue, error) {
	params := url.Values{"jql": {jql}}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	if maxResults > 0 {
		params.Set("maxResults", strconv.Itoa(maxResults))
	}

	var result struct {
		Issues        []Issue `json:"issues"`
		NextPageToken string  `json:"nextPageToken,omitempty"`
	}
	if err := c.get(ctx, "fetch tickets", c.apiURL("/search/jql?"+params.Encode()), &result); err != nil {
		return nil, err
	}
	return result.Issues, nil
}

// ListTickets runs the jt list search.
func (c *Client) ListTickets(ctx context.Context, q SearchQuery, spFieldID string) ([]Issue, error) {
	jql, fields := BuildSearchQuery(q, spFieldID)
	return c.SearchIssues(ctx, jql, fields, 0)
}

// InferProjectKey returns the project of the user's most recently updated
// ticket.
func (c *Client) InferProjectKey(ctx context.Context) (string, error) {
	issues, err := c.SearchIssues(ctx, recentTicketJQL, []string{"project"}, 1)
	if err != nil {
		return "", fmt.Errorf("infer project key: %w", err)
	}
	if len(issues) == 0 || issues[0].Fields.Project == nil || issues[0].Fields.Project.Key == "" {
		return "", &NotFoundError{
			Kind:    "project",
			Message: "Could not infer project. Please specify a project key.",
		}
	}
	return issues[0].Fields.Project.Key, nil
}

// ProjectKeyOf returns the project key of an issue.
func (c *Client) ProjectKeyOf(ctx context.Context, key string) (string, error) {
	issue, err := c.GetIssue(ctx, key, []string{"project"})
	if err != nil {
		return "", err
	}
	if issue.Fields.Project == nil || issue.Fields.Project.Key == "" {
		return "", &NotFoundError{Kind: "project", Query: key,
			Message: fmt.Sprintf("Could not determine the project of %s", NormalizeKey(key))}
	}
	return issue.Fields.Project.Key, nil
}

// CreateIssue creates an issue from a CreatePayload.
func (c *Client) CreateIssue(ctx context.Context, payload Payload) (*CreatedIssue, error) {
	var created CreatedIssue
	if err := c.send(ctx, "create ticket", http.MethodPost, c.apiURL("/issue"), payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateIssue applies a fields payload to an issue.
func (c *Client) UpdateIssue(ctx context.Context, key string, payload Payload) error {
	key = NormalizeKey(key)
	return c.send(ctx, "update ticket "+key, http.MethodPut, c.apiURL("/issue/"+url.PathEscape(key)), payload, nil)
}

// AssignIssue sets the assignee of an issue.
func (c *Client) AssignIssue(ctx context.Context, key, accountID string) error {
	key = NormalizeKey(key)
	return c.send(ctx, "assign ticket "+key, http.MethodPut,
		c.apiURL("/issue/"+url.PathEscape(key)), AssignPayload(accountID), nil)
}

// SetStoryPoints writes points to the Story Points field.
func (c *Client) SetStoryPoints(ctx context.Context, key, fieldID string, points int) error {
	key = NormalizeKey(key)
	return c.send(ctx, "set story points for "+key, http.MethodPut,
		c.apiURL("/issue/"+url.PathEscape(key)), StoryPointsPayload(fieldID, points), nil)
}

// Transitions lists the transitions available on an issue.
func (c *Client) Transitions(ctx context.Context, key string) ([]Transition, error) {
	key = NormalizeKey(key)
	var result struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := c.get(ctx, "fetch transitions for "+key, c.apiURL("/issue/"+url.PathEscape(key)+"/transitions"), &result); err != nil {
		return nil, err
	}
	return result.Transitions, nil
}

// FindTransition picks a transition by case-insensitive name.
func FindTransition(transitions []Transition, key, name string) (*Transition, error) {
	for i := range transitions {
		if strings.EqualFold(transitions[i].Name, name) {
			return &transitions[i], nil
		}
	}
	return nil, &NotFoundError{
		Kind:    "transition",
		Query:   name,
		Message: fmt.Sprintf("Could not find transition '%s' for ticket %s", name, NormalizeKey(key)),
	}
}

// TransitionIssue executes a transition on an issue.
func (c *Client) TransitionIssue(ctx context.Context, key, transitionID string) error {
	key = NormalizeKey(key)
	return c.send(ctx, "transition ticket "+key, http.MethodPost,
		c.apiURL("/issue/"+url.PathEscape(key)+"/transitions"), TransitionPayload(transitionID), nil)
}

// TransitionByName looks up a transition by name and executes it.
func (c *Client) TransitionByName(ctx context.Context, key, name string) (*Transition, error) {
	transitions, err := c.Transitions(ctx, key)
	if err != nil {
		return nil, err
	}
	t, err := FindTransition(transitions, key, name)
	if err != nil {
		return nil, err
	}
	if err := c.TransitionIssue(ctx, key, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// Comments lists the comments on an issue, oldest first.
func (c *Client) Comments(ctx context.Context, key string) ([]Comment, error) {
	key = NormalizeKey(key)
	var page CommentPage
	if err := c.get(ctx, "fetch comments for "+key, c.apiURL("/issue/"+url.PathEscape(key)+"/comment"), &page); err != nil {
		return nil, err
	}
	return page.Comments, nil
}

// AddComment posts an ADF comment body.
func (c *Client) AddComment(ctx context.Context, key string, body *adf.Node) (*Comment, error) {
	key = NormalizeKey(key)
	var comment Comment
	if err := c.send(ctx, "add comment to "+key, http.MethodPost,
		c.apiURL("/issue/"+url.PathEscape(key)+"/comment"), CommentPayload(body), &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
