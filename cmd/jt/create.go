package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jtcli/jt/internal/adf"
	"github.com/jtcli/jt/internal/debug"
	"github.com/jtcli/jt/internal/jira"
)

var createCmd = &cobra.Command{
	Use:     "create <title>",
	Aliases: []string{"c"},
	GroupID: GroupTickets,
	Short:   "Create a ticket assigned to you in the active sprint",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := createOptions{Title: args[0]}
		opts.Project, _ = cmd.Flags().GetString("project")
		opts.Description, _ = cmd.Flags().GetString("description")
		opts.IssueType, _ = cmd.Flags().GetString("type")
		run(func(ctx context.Context, a *app) error {
			return a.runCreate(ctx, opts)
		})
	},
}

func init() {
	createCmd.Flags().StringP("project", "p", "", "Project key (default: inferred from your most recent ticket)")
	createCmd.Flags().StringP("description", "m", "", "Description in markdown")
	createCmd.Flags().StringP("type", "t", "", "Issue type (default: $JT_ISSUE_TYPE or Task)")
	rootCmd.AddCommand(createCmd)
}

type createOptions struct {
	Title       string
	Project     string
	Description string
	IssueType   string
}

// createdView is the result of jt create.
type createdView struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Sprint string `json:"sprint,omitempty"`
}

func (a *app) runCreate(ctx context.Context, opts createOptions) error {
	me, err := a.client.CurrentUser(ctx)
	if err != nil {
		return err
	}

	project := upper(opts.Project)
	if project == "" {
		if project, err = a.client.InferProjectKey(ctx); err != nil {
			return err
		}
	}
	a.progressf("Using project: %s\n", project)

	in := jira.CreateInput{
		ProjectKey: project,
		Summary:    opts.Title,
		IssueType:  opts.IssueType,
		AssigneeID: me.AccountID,
	}
	if in.IssueType == "" {
		in.IssueType = a.cfg.IssueType
	}
	if strings.TrimSpace(opts.Description) != "" {
		if in.Description, err = adf.FromMarkdown(opts.Description); err != nil {
			return err
		}
	}

	sprint, err := a.sprintForNewTicket(ctx, project)
	if err != nil {
		WarnError("Could not find an active sprint to assign the ticket to. %v", err)
	} else if sprint != nil {
		in.SprintFieldID = sprint.fieldID
		in.SprintID = sprint.ID
	}

	a.progressf("Creating ticket...\n")
	created, err := a.client.CreateIssue(ctx, jira.CreatePayload(in))
	if err != nil {
		return err
	}

	view := createdView{Key: created.Key, Title: opts.Title, URL: a.cfg.BrowseURL(created.Key)}
	if in.SprintFieldID != "" {
		view.Sprint = sprint.Name
	}
	if a.json {
		return a.emitJSON(view)
	}

	a.printf("\nSuccessfully created ticket: %s\n", view.Key)
	a.printf("  Title: %s\n", view.Title)
	a.printf("  URL: %s\n", view.URL)
	if view.Sprint != "" {
		a.printf("  Assigned to sprint: \"%s\"\n", view.Sprint)
	}
	return nil
}

type newTicketSprint struct {
	jira.Sprint
	fieldID string
}

// sprintForNewTicket finds the project's active sprint and the Sprint
// field to set it through. A nil result without error means the site has
// no Sprint field.
func (a *app) sprintForNewTicket(ctx context.Context, project string) (*newTicketSprint, error) {
	active, err := a.client.ActiveSprintForProject(ctx, project)
	if err != nil {
		return nil, err
	}
	fieldID, err := a.fields.FieldID(ctx, jira.SprintField)
	if err != nil {
		return nil, err
	}
	if fieldID == "" {
		debug.Logf("no Sprint field on this site, creating %s ticket outside sprints\n", project)
		return nil, nil
	}
	return &newTicketSprint{Sprint: *active, fieldID: fieldID}, nil
}
