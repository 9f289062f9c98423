package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jtcli/jt/internal/jira"
)

var assignCmd = &cobra.Command{
	Use:     "assign <ticket-id> <user>",
	Aliases: []string{"a"},
	GroupID: GroupPeople,
	Short:   "Assign a ticket to a user (name or email)",
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, a *app) error {
			return a.runAssign(ctx, args[0], args[1])
		})
	},
}

var assigneeCmd = &cobra.Command{
	Use:     "assignee <user>",
	GroupID: GroupPeople,
	Short:   "Look up the account ID of a user",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, a *app) error {
			return a.runAssignee(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(assignCmd, assigneeCmd)
}

func (a *app) runAssign(ctx context.Context, key, user string) error {
	key = jira.NormalizeKey(key)
	a.progressf("Finding user '%s'...\n", user)
	accountID, err := a.client.AccountID(ctx, user)
	if err != nil {
		return err
	}

	a.progressf("Assigning ticket %s to %s (%s)...\n", key, user, accountID)
	if err := a.client.AssignIssue(ctx, key, accountID); err != nil {
		return err
	}
	if a.json {
		return a.emitJSON(map[string]string{"key": key, "account_id": accountID})
	}
	a.printf("\nSuccessfully assigned ticket %s to %s.\n", key, user)
	return nil
}

func (a *app) runAssignee(ctx context.Context, user string) error {
	a.progressf("Looking up user '%s'...\n", user)
	accountID, err := a.client.AccountID(ctx, user)
	if err != nil {
		return err
	}
	if a.json {
		return a.emitJSON(map[string]string{"query": user, "account_id": accountID})
	}
	a.printf("Account ID for %s: %s\n", user, accountID)
	return nil
}
