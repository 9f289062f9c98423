package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type boardPage struct {
	Values []Board `json:"values"`
}

type sprintPage struct {
	Values []Sprint `json:"values"`
}

// BoardID returns the first board of a project.
func (c *Client) BoardID(ctx context.Context, projectKey string) (int, error) {
	var page boardPage
	apiURL := c.agileURL("/board?" + url.Values{"projectKeyOrId": {projectKey}}.Encode())
	if err := c.get(ctx, "find board for project "+projectKey, apiURL, &page); err != nil {
		return 0, err
	}
	if len(page.Values) == 0 {
		return 0, &NotFoundError{Kind: "board", Query: projectKey,
			Message: "No boards found for project " + projectKey}
	}
	return page.Values[0].ID, nil
}

// ActiveSprint returns the board's active sprint.
func (c *Client) ActiveSprint(ctx context.Context, boardID int) (*Sprint, error) {
	var page sprintPage
	apiURL := c.agileURL(fmt.Sprintf("/board/%d/sprint?state=active", boardID))
	if err := c.get(ctx, fmt.Sprintf("get active sprint for board %d", boardID), apiURL, &page); err != nil {
		return nil, err
	}
	if len(page.Values) == 0 {
		return nil, &NotFoundError{Kind: "sprint",
			Message: fmt.Sprintf("No active sprint found for board %d", boardID)}
	}
	return &page.Values[0], nil
}

// Sprints lists the sprints of a board.
func (c *Client) Sprints(ctx context.Context, boardID int) ([]Sprint, error) {
	var page sprintPage
	apiURL := c.agileURL(fmt.Sprintf("/board/%d/sprint", boardID))
	if err := c.get(ctx, fmt.Sprintf("get sprints for board %d", boardID), apiURL, &page); err != nil {
		return nil, err
	}
	return page.Values, nil
}

// MatchSprints returns the sprints whose name contains query, ignoring case.
func MatchSprints(sprints []Sprint, query string) []Sprint {
	q := strings.ToLower(query)
	var out []Sprint
	for _, s := range sprints {
		if strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

// PickSprint resolves query to exactly one sprint.
func PickSprint(sprints []Sprint, query string) (*Sprint, error) {
	matches := MatchSprints(sprints, query)
	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Kind: "sprint", Query: query}
	case 1:
		return &matches[0], nil
	}
	names := make([]string, len(matches))
	for i, s := range matches {
		names[i] = s.Name
	}
	return nil, &AmbiguousMatchError{Kind: "sprint", Query: query, Candidates: names}
}

// FindSprint looks a sprint up by name on a board.
func (c *Client) FindSprint(ctx context.Context, boardID int, query string) (*Sprint, error) {
	sprints, err := c.Sprints(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return PickSprint(sprints, query)
}

// MoveToSprint adds issues to a sprint.
func (c *Client) MoveToSprint(ctx context.Context, sprintID int, keys ...string) error {
	normalized := make([]string, len(keys))
	for i, k := range keys {
		normalized[i] = NormalizeKey(k)
	}
	op := fmt.Sprintf("assign %s to sprint %d", strings.Join(normalized, ", "), sprintID)
	return c.send(ctx, op, http.MethodPost,
		c.agileURL(fmt.Sprintf("/sprint/%d/issue", sprintID)), SprintIssuesPayload(normalized...), nil)
}

// ActiveSprintForProject returns the active sprint on the project's first
// board.
func (c *Client) ActiveSprintForProject(ctx context.Context, projectKey string) (*Sprint, error) {
	boardID, err := c.BoardID(ctx, projectKey)
	if err != nil {
		return nil, err
	}
	return c.ActiveSprint(ctx, boardID)
}

// FindSprintForIssue looks query up on the board of the issue's project.
func (c *Client) FindSprintForIssue(ctx context.Context, key, query string) (*Sprint, error) {
	projectKey, err := c.ProjectKeyOf(ctx, key)
	if err != nil {
		return nil, err
	}
	boardID, err := c.BoardID(ctx, projectKey)
	if err != nil {
		return nil, err
	}
	return c.FindSprint(ctx, boardID, query)
}
