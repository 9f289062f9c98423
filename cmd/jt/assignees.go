package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jtcli/jt/internal/jira"
	"github.com/jtcli/jt/internal/ui"
)

var assigneesCmd = &cobra.Command{
	Use:     "assignees [project-key]",
	GroupID: GroupPeople,
	Short:   "List users that can be assigned tickets in a project",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		project := ""
		if len(args) > 0 {
			project = args[0]
		}
		run(func(ctx context.Context, a *app) error {
			return a.runAssignees(ctx, project)
		})
	},
}

func init() {
	rootCmd.AddCommand(assigneesCmd)
}

func (a *app) runAssignees(ctx context.Context, project string) error {
	project, err := a.projectOrInfer(ctx, project)
	if err != nil {
		return err
	}
	users, err := a.client.AssignableUsers(ctx, project)
	if err != nil {
		return err
	}

	if a.json {
		if users == nil {
			users = []jira.User{}
		}
		return a.emitJSON(users)
	}
	if len(users) == 0 {
		a.printf("No assignable users found for this project.\n")
		return nil
	}

	table := ui.NewTable("Display Name", "Account ID", "Email")
	for _, u := range users {
		table.Append(u.DisplayName, u.AccountID, u.EmailAddress)
	}
	a.printf("Assignable users for project '%s':\n", project)
	return a.page(table.Render())
}
