package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jtcli/jt/internal/jira"
	"github.com/jtcli/jt/internal/ui"
)

// listFlags are shared by list, la and ld.
type listFlags struct {
	all  bool
	done bool
	sort string
}

func newListCmd(use string, aliases []string, short string, preset jira.SearchQuery) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:     use + " [user]",
		Aliases: aliases,
		GroupID: GroupTickets,
		Short:   short,
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			q := jira.SearchQuery{
				ShowAll:  preset.ShowAll || flags.all,
				ShowDone: preset.ShowDone || flags.done,
				SortBy:   flags.sort,
			}
			if err := validateSort(q.SortBy); err != nil {
				exitOnError(err)
			}
			user := ""
			if len(args) > 0 {
				user = args[0]
			}
			run(func(ctx context.Context, a *app) error {
				return a.runList(ctx, user, q)
			})
		},
	}
	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "Show all tickets, not just those in open sprints")
	cmd.Flags().BoolVarP(&flags.done, "done", "d", false, "Show resolved tickets instead of open ones")
	cmd.Flags().StringVar(&flags.sort, "sort", "", "Sort by: "+strings.Join(jira.SortKeys(), ", ")+" (default: last updated)")
	return cmd
}

func validateSort(sortBy string) error {
	if sortBy == "" {
		return nil
	}
	for _, k := range jira.SortKeys() {
		if k == sortBy {
			return nil
		}
	}
	return usageErrorf("invalid --sort %q (choose from %s)", sortBy, strings.Join(jira.SortKeys(), ", "))
}

func init() {
	rootCmd.AddCommand(
		newListCmd("list", []string{"l"}, "List your tickets in open sprints, or another user's", jira.SearchQuery{}),
		newListCmd("la", nil, "List all tickets, regardless of sprint (list --all)", jira.SearchQuery{ShowAll: true}),
		newListCmd("ld", nil, "List resolved tickets (list --done)", jira.SearchQuery{ShowDone: true}),
	)
}

// listRow is one ticket in list output.
type listRow struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Points *float64 `json:"points"`
	Status string   `json:"status"`
}

func (a *app) runList(ctx context.Context, user string, q jira.SearchQuery) error {
	if user != "" {
		id, err := a.client.AccountID(ctx, user)
		if err != nil {
			return err
		}
		q.AssigneeID = id
	}

	spID, err := a.fields.FieldID(ctx, jira.StoryPointsField)
	if err != nil {
		return err
	}
	issues, err := a.client.ListTickets(ctx, q, spID)
	if err != nil {
		return err
	}

	if a.json {
		rows := make([]listRow, 0, len(issues))
		for i := range issues {
			points, ok := issues[i].StoryPoints(spID)
			rows = append(rows, listRow{
				ID:     issues[i].Key,
				Title:  issues[i].Fields.Summary,
				Points: pointsPtr(points, ok),
				Status: statusName(&issues[i]),
			})
		}
		return a.emitJSON(rows)
	}

	if len(issues) == 0 {
		a.printf("No tickets found.\n")
		return nil
	}

	table := ui.NewTable("ID", "Title", "Points", "Status")
	for i := range issues {
		points, ok := issues[i].StoryPoints(spID)
		table.Append(issues[i].Key, issues[i].Fields.Summary, formatPoints(points, ok, "N/A"), ui.RenderStatus(statusName(&issues[i])))
	}
	return a.page(table.Render())
}

func statusName(issue *jira.Issue) string {
	if issue.Fields.Status == nil {
		return ""
	}
	return issue.Fields.Status.Name
}
