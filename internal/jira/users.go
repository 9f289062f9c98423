package jira

import (
	"context"
	"net/url"
)

// CurrentUser returns the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.get(ctx, "fetch current user", c.apiURL("/myself"), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SearchUsers finds users by name or email fragment.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	var users []User
	apiURL := c.apiURL("/user/search?" + url.Values{"query": {query}}.Encode())
	if err := c.get(ctx, "search for user '"+query+"'", apiURL, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AccountID returns the account ID of the first user matching query.
func (c *Client) AccountID(ctx context.Context, query string) (string, error) {
	users, err := c.SearchUsers(ctx, query)
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", &NotFoundError{Kind: "user", Query: query}
	}
	return users[0].AccountID, nil
}

// AssignableUsers lists the users that can be assigned in a project.
func (c *Client) AssignableUsers(ctx context.Context, projectKey string) ([]User, error) {
	var users []User
	apiURL := c.apiURL("/user/assignable/search?" + url.Values{"project": {projectKey}}.Encode())
	if err := c.get(ctx, "fetch assignees for project '"+projectKey+"'", apiURL, &users); err != nil {
		return nil, err
	}
	return users, nil
}
