package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jtcli/jt/internal/jira"
	"github.com/jtcli/jt/internal/ui"
)

var sprintCmd = &cobra.Command{
	Use:     "sprint [ticket-id] [sprint-query]",
	Aliases: []string{"s"},
	GroupID: GroupSprints,
	Short:   "Show the active sprint, or move a ticket into a sprint",
	Long: `Show the active sprint, or move a ticket into a sprint.

With no arguments, shows the active sprint of your current project.
With a ticket and a query, moves the ticket into the sprint of its
project whose name contains the query (case-insensitive).`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, a *app) error {
			return a.runSprint(ctx, args)
		})
	},
}

func init() {
	rootCmd.AddCommand(sprintCmd)
}

func (a *app) runSprint(ctx context.Context, args []string) error {
	switch len(args) {
	case 0:
		return a.showActiveSprint(ctx)
	case 2:
		return a.moveToSprint(ctx, args[0], args[1])
	default:
		return usageErrorf("Invalid arguments. Use 'sprint' to see the active sprint, or 'sprint <ticket-id> <sprint-query>' to assign a ticket.")
	}
}

func (a *app) showActiveSprint(ctx context.Context) error {
	a.progressf("Finding active sprint...\n")
	project, err := a.client.InferProjectKey(ctx)
	if err != nil {
		return err
	}
	sprint, err := a.client.ActiveSprintForProject(ctx, project)
	if err != nil {
		return err
	}
	if a.json {
		return a.emitJSON(sprint)
	}

	a.printf("\n%s\n", ui.RenderLabel("--- Active Sprint ---"))
	a.printf("Name: %s\n", sprint.Name)
	a.printf("ID: %d\n", sprint.ID)
	a.printf("Goal: %s\n", ui.OrDefault(sprint.Goal, "Not set"))
	return nil
}

func (a *app) moveToSprint(ctx context.Context, key, query string) error {
	key = jira.NormalizeKey(key)
	a.progressf("Assigning ticket %s to a sprint matching '%s'...\n", key, query)

	sprint, err := a.client.FindSprintForIssue(ctx, key, query)
	if err != nil {
		return err
	}
	a.progressf("Found sprint: \"%s\" (ID: %d)\n", sprint.Name, sprint.ID)

	if err := a.client.MoveToSprint(ctx, sprint.ID, key); err != nil {
		return err
	}
	if a.json {
		return a.emitJSON(map[string]interface{}{"key": key, "sprint": sprint})
	}
	a.printf("\nSuccessfully assigned %s to sprint \"%s\".\n", key, sprint.Name)
	return nil
}
