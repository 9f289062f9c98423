package jira

import "github.com/jtcli/jt/internal/adf"

// Payload is a JSON request body. Builders below are pure: the same input
// always yields the same payload.
type Payload map[string]interface{}

// AssignPayload sets the assignee of an issue.
func AssignPayload(accountID string) Payload {
	return Payload{
		"fields": map[string]interface{}{
			"assignee": map[string]interface{}{"accountId": accountID},
		},
	}
}

// CreateInput describes a new ticket.
type CreateInput struct {
	ProjectKey  string
	Summary     string
	IssueType   string // defaults to Task
	AssigneeID  string
	Description *adf.Node

	// SprintFieldID and SprintID attach the ticket to a sprint when both
	// are set.
	SprintFieldID string
	SprintID      int
}

// CreatePayload builds the body for creating an issue.
func CreatePayload(in CreateInput) Payload {
	issueType := in.IssueType
	if issueType == "" {
		issueType = "Task"
	}
	fields := map[string]interface{}{
		"project":   map[string]interface{}{"key": in.ProjectKey},
		"summary":   in.Summary,
		"issuetype": map[string]interface{}{"name": issueType},
	}
	if in.AssigneeID != "" {
		fields["assignee"] = map[string]interface{}{"accountId": in.AssigneeID}
	}
	if in.Description != nil {
		fields["description"] = in.Description
	}
	if in.SprintFieldID != "" && in.SprintID != 0 {
		fields[in.SprintFieldID] = in.SprintID
	}
	return Payload{"fields": fields}
}

// UpdateInput holds the edits for an issue. Nil Summary leaves the title
// alone. With SetDescription, a nil Description clears it.
type UpdateInput struct {
	Summary        *string
	SetDescription bool
	Description    *adf.Node
}

// Empty reports whether the update changes nothing.
func (in UpdateInput) Empty() bool {
	return in.Summary == nil && !in.SetDescription
}

// UpdatePayload builds the body for editing an issue.
func UpdatePayload(in UpdateInput) Payload {
	fields := map[string]interface{}{}
	if in.Summary != nil {
		fields["summary"] = *in.Summary
	}
	if in.SetDescription {
		if in.Description != nil {
			fields["description"] = in.Description
		} else {
			fields["description"] = nil
		}
	}
	return Payload{"fields": fields}
}

// StoryPointsPayload sets the Story Points field.
func StoryPointsPayload(fieldID string, points int) Payload {
	return Payload{
		"fields": map[string]interface{}{fieldID: points},
	}
}

// CommentPayload builds the body for adding a comment.
func CommentPayload(body *adf.Node) Payload {
	return Payload{"body": body}
}

// TransitionPayload executes the transition with the given ID.
func TransitionPayload(transitionID string) Payload {
	return Payload{
		"transition": map[string]interface{}{"id": transitionID},
	}
}

// SprintIssuesPayload moves issues into a sprint.
func SprintIssuesPayload(keys ...string) Payload {
	issues := make([]string, len(keys))
	copy(issues, keys)
	return Payload{"issues": issues}
}
