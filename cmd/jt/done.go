package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jtcli/jt/internal/jira"
)

// doneTransition is the workflow transition jt done looks for.
const doneTransition = "Done"

var doneCmd = &cobra.Command{
	Use:     "done <ticket-id>",
	Aliases: []string{"d"},
	GroupID: GroupTickets,
	Short:   "Transition a ticket to Done",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, a *app) error {
			return a.runDone(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func (a *app) runDone(ctx context.Context, key string) error {
	key = jira.NormalizeKey(key)
	a.progressf("Transitioning %s to %s...\n", key, doneTransition)

	t, err := a.client.TransitionByName(ctx, key, doneTransition)
	if err != nil {
		return err
	}
	if a.json {
		return a.emitJSON(map[string]string{"key": key, "transition": t.Name, "transition_id": t.ID})
	}
	a.printf("\nTicket %s successfully transitioned to %s.\n", key, t.Name)
	return nil
}
