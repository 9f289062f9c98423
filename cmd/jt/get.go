package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jtcli/jt/internal/adf"
	"github.com/jtcli/jt/internal/jira"
	"github.com/jtcli/jt/internal/ui"
)

var getCmd = &cobra.Command{
	Use:     "get <ticket-id> [field]",
	Aliases: []string{"g"},
	GroupID: GroupTickets,
	Short:   "Show details for a ticket, or just a specific field",
	Long: `Show details for a ticket, or just a specific field.

Fields: ID, Title, URL, Status, Assignee, Reporter, Story Points, Comments, Description.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		field := ""
		if len(args) > 1 {
			field = args[1]
		}
		run(func(ctx context.Context, a *app) error {
			return a.runGet(ctx, args[0], field)
		})
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}

var getFields = []string{"summary", "status", "assignee", "reporter", "comment", "description"}

// ticketView is the displayed form of a ticket.
type ticketView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Status      string   `json:"status,omitempty"`
	Assignee    string   `json:"assignee"`
	Reporter    string   `json:"reporter,omitempty"`
	StoryPoints *float64 `json:"story_points"`
	Comments    int      `json:"comments"`
	Description string   `json:"description"`

	pointsText string
}

// labeled returns the view as ordered label/value pairs.
func (v ticketView) labeled() [][2]string {
	return [][2]string{
		{"ID", v.ID},
		{"Title", v.Title},
		{"URL", v.URL},
		{"Status", v.Status},
		{"Assignee", v.Assignee},
		{"Reporter", v.Reporter},
		{"Story Points", v.pointsText},
		{"Comments", strconv.Itoa(v.Comments)},
		{"Description", v.Description},
	}
}

func (a *app) ticketView(ctx context.Context, key string) (*ticketView, error) {
	spID, err := a.fields.FieldID(ctx, jira.StoryPointsField)
	if err != nil {
		return nil, err
	}
	fields := getFields
	if spID != "" {
		fields = append(append([]string(nil), getFields...), spID)
	}
	issue, err := a.client.GetIssue(ctx, key, fields)
	if err != nil {
		return nil, err
	}

	f := issue.Fields
	v := &ticketView{
		ID:       issue.Key,
		Title:    f.Summary,
		URL:      a.cfg.BrowseURL(issue.Key),
		Assignee: "Unassigned",
	}
	if f.Status != nil {
		v.Status = f.Status.Name
	}
	if f.Assignee != nil && f.Assignee.DisplayName != "" {
		v.Assignee = f.Assignee.DisplayName
	}
	if f.Reporter != nil {
		v.Reporter = f.Reporter.DisplayName
	}
	if f.Comment != nil {
		v.Comments = f.Comment.Total
	}
	points, ok := issue.StoryPoints(spID)
	v.StoryPoints = pointsPtr(points, ok)
	v.pointsText = formatPoints(points, ok, "Not set")

	v.Description = "No description found."
	if desc, err := adf.RawToMarkdown(f.Description); err != nil {
		return nil, err
	} else if desc != "" {
		v.Description = desc
	}
	return v, nil
}

func (a *app) runGet(ctx context.Context, key, field string) error {
	v, err := a.ticketView(ctx, jira.NormalizeKey(key))
	if err != nil {
		return err
	}
	pairs := v.labeled()

	if field != "" {
		names := make([]string, 0, len(pairs))
		for _, p := range pairs {
			if strings.EqualFold(p[0], field) {
				if a.json {
					return a.emitJSON(map[string]string{p[0]: p[1]})
				}
				a.printf("%s\n", p[1])
				return nil
			}
			names = append(names, p[0])
		}
		return usageErrorf("Field '%s' not found.\nAvailable fields: %s", field, strings.Join(names, ", "))
	}

	if a.json {
		return a.emitJSON(v)
	}

	details := make([][2]string, 0, len(pairs))
	for _, p := range pairs[:len(pairs)-1] {
		if p[1] == "" {
			continue
		}
		if p[0] == "Status" {
			p[1] = ui.RenderStatus(p[1])
		}
		details = append(details, p)
	}

	var sb strings.Builder
	sb.WriteString("\n" + ui.RenderLabel("--- Ticket Details ---") + "\n\n")
	sb.WriteString(padLabels(details))
	sb.WriteString("\n" + ui.RenderLabel("--- Description ---") + "\n\n")
	rendered := ui.RenderMarkdown(v.Description)
	sb.WriteString(rendered)
	if !strings.HasSuffix(rendered, "\n") {
		sb.WriteString("\n")
	}
	return a.page(sb.String())
}
