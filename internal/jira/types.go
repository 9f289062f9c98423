// Package jira is a small client for the Jira Cloud REST v3 and agile APIs
// plus the query and payload builders the jt commands need.
package jira

import (
	"encoding/json"
	"fmt"
	"time"
)

// Issue represents a Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self,omitempty"`
	Fields IssueFields `json:"fields"`
}

// IssueFields holds the fields jt reads. Custom fields such as Story
// Points have instance-specific IDs, so every raw field is also kept in
// Custom.
type IssueFields struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description,omitempty"` // ADF document
	Status      *Status         `json:"status,omitempty"`
	Assignee    *User           `json:"assignee,omitempty"`
	Reporter    *User           `json:"reporter,omitempty"`
	Project     *Project        `json:"project,omitempty"`
	Comment     *CommentPage    `json:"comment,omitempty"`
	Created     string          `json:"created,omitempty"`
	Updated     string          `json:"updated,omitempty"`

	Custom map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps every field raw.
func (f *IssueFields) UnmarshalJSON(data []byte) error {
	type known IssueFields
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = IssueFields(k)
	f.Custom = raw
	return nil
}

// Number reads a numeric custom field. ok is false when the field is
// missing, null or not a number.
func (f IssueFields) Number(fieldID string) (value float64, ok bool) {
	if fieldID == "" {
		return 0, false
	}
	raw, found := f.Custom[fieldID]
	if !found {
		return 0, false
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return 0, false
	}
	return *v, true
}

// StoryPoints returns the issue's story points under fieldID.
func (i *Issue) StoryPoints(fieldID string) (float64, bool) {
	return i.Fields.Number(fieldID)
}

// Status represents a Jira issue status.
type Status struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// User represents a Jira user.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       bool   `json:"active,omitempty"`
}

// Project represents a Jira project.
type Project struct {
	ID   string `json:"id,omitempty"`
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// Comment is one issue comment.
type Comment struct {
	ID      string          `json:"id"`
	Author  *User           `json:"author,omitempty"`
	Body    json.RawMessage `json:"body,omitempty"` // ADF document
	Created string          `json:"created,omitempty"`
	Updated string          `json:"updated,omitempty"`
}

// CommentPage is the comment envelope returned on issues and by the
// comment endpoint.
type CommentPage struct {
	Comments   []Comment `json:"comments"`
	Total      int       `json:"total"`
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
}

// Field is one entry of the field metadata list.
type Field struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

// Transition is a workflow transition available on an issue.
type Transition struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	To   *Status `json:"to,omitempty"`
}

// Board is an agile board.
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Sprint is an agile sprint.
type Sprint struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Goal  string `json:"goal,omitempty"`
	State string `json:"state,omitempty"`
}

// CreatedIssue is the body returned when an issue is created.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// ParseTimestamp parses Jira's timestamp format into a time.Time.
// Jira uses ISO 8601 with timezone: 2024-01-15T10:30:00.000+0000 or 2024-01-15T10:30:00.000Z
func ParseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	formats := []string{
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", ts)
}
