package jira

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtcli/jt/internal/adf"
)

func marshal(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestPayloads(t *testing.T) {
	title := "New title"
	desc := adf.NewDoc(adf.Paragraph(adf.Text("hi")))

	tests := []struct {
		name    string
		payload Payload
		want    string
	}{
		{
			name:    "assign",
			payload: AssignPayload("acc-1"),
			want:    `{"fields":{"assignee":{"accountId":"acc-1"}}}`,
		},
		{
			name: "create minimal",
			payload: CreatePayload(CreateInput{
				ProjectKey: "PROJ",
				Summary:    "Fix it",
				AssigneeID: "acc-1",
			}),
			want: `{"fields":{"assignee":{"accountId":"acc-1"},"issuetype":{"name":"Task"},"project":{"key":"PROJ"},"summary":"Fix it"}}`,
		},
		{
			name: "create with sprint and description",
			payload: CreatePayload(CreateInput{
				ProjectKey:    "PROJ",
				Summary:       "Fix it",
				IssueType:     "Bug",
				Description:   desc,
				SprintFieldID: "customfield_10020",
				SprintID:      42,
			}),
			want: `{"fields":{"customfield_10020":42,"description":{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"hi"}]}]},"issuetype":{"name":"Bug"},"project":{"key":"PROJ"},"summary":"Fix it"}}`,
		},
		{
			name: "create sprint needs field id",
			payload: CreatePayload(CreateInput{
				ProjectKey: "PROJ",
				Summary:    "Fix it",
				SprintID:   42,
			}),
			want: `{"fields":{"issuetype":{"name":"Task"},"project":{"key":"PROJ"},"summary":"Fix it"}}`,
		},
		{
			name:    "update title",
			payload: UpdatePayload(UpdateInput{Summary: &title}),
			want:    `{"fields":{"summary":"New title"}}`,
		},
		{
			name:    "update clears description",
			payload: UpdatePayload(UpdateInput{SetDescription: true}),
			want:    `{"fields":{"description":null}}`,
		},
		{
			name:    "update both",
			payload: UpdatePayload(UpdateInput{Summary: &title, SetDescription: true, Description: desc}),
			want:    `{"fields":{"description":{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"hi"}]}]},"summary":"New title"}}`,
		},
		{
			name:    "story points",
			payload: StoryPointsPayload("customfield_10016", 5),
			want:    `{"fields":{"customfield_10016":5}}`,
		},
		{
			name:    "comment",
			payload: CommentPayload(desc),
			want:    `{"body":{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"hi"}]}]}}`,
		},
		{
			name:    "transition",
			payload: TransitionPayload("31"),
			want:    `{"transition":{"id":"31"}}`,
		},
		{
			name:    "sprint issues",
			payload: SprintIssuesPayload("PROJ-1", "PROJ-2"),
			want:    `{"issues":["PROJ-1","PROJ-2"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, marshal(t, tt.payload))
		})
	}
}

func TestPayloadsAreDeterministic(t *testing.T) {
	in := CreateInput{
		ProjectKey:    "PROJ",
		Summary:       "Same",
		AssigneeID:    "acc",
		SprintFieldID: "customfield_1",
		SprintID:      7,
	}
	first := marshal(t, CreatePayload(in))
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, marshal(t, CreatePayload(in)))
	}
	assert.Equal(t, marshal(t, AssignPayload("x")), marshal(t, AssignPayload("x")))
}

func TestUpdateInputEmpty(t *testing.T) {
	title := "t"
	assert.True(t, UpdateInput{}.Empty())
	assert.False(t, UpdateInput{Summary: &title}.Empty())
	assert.False(t, UpdateInput{SetDescription: true}.Empty())
}

func TestSprintIssuesPayloadCopiesKeys(t *testing.T) {
	keys := []string{"A-1"}
	p := SprintIssuesPayload(keys...)
	keys[0] = "B-2"
	assert.JSONEq(t, `{"issues":["A-1"]}`, marshal(t, p))
}
