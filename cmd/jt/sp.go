package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jtcli/jt/internal/jira"
)

var spCmd = &cobra.Command{
	Use:     "sp [ticket-id] [points]",
	GroupID: GroupSprints,
	Short:   "Show or set story points, or summarize your points in open sprints",
	Args:    cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, a *app) error {
			switch len(args) {
			case 2:
				return a.setPoints(ctx, args[0], args[1])
			case 1:
				return a.showPoints(ctx, args[0])
			default:
				return a.summarizePoints(ctx)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(spCmd)
}

// parsePoints accepts a non-negative whole number.
func parsePoints(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, usageErrorf("Story points must be a non-negative integer.")
	}
	return n, nil
}

func (a *app) setPoints(ctx context.Context, key, value string) error {
	key = jira.NormalizeKey(key)
	fieldID, err := a.storyPointsField(ctx)
	if err != nil {
		return err
	}
	points, err := parsePoints(value)
	if err != nil {
		return err
	}
	if err := a.client.SetStoryPoints(ctx, key, fieldID, points); err != nil {
		return err
	}
	if a.json {
		return a.emitJSON(map[string]interface{}{"key": key, "story_points": points})
	}
	a.printf("Successfully set Story Points to %d for ticket %s.\n", points, key)
	return nil
}

func (a *app) showPoints(ctx context.Context, key string) error {
	key = jira.NormalizeKey(key)
	fieldID, err := a.storyPointsField(ctx)
	if err != nil {
		return err
	}
	issue, err := a.client.GetIssue(ctx, key, []string{fieldID})
	if err != nil {
		return err
	}
	points, ok := issue.StoryPoints(fieldID)
	if a.json {
		return a.emitJSON(map[string]interface{}{"key": key, "story_points": pointsPtr(points, ok)})
	}
	a.printf("Story Points for %s: %s\n", key, formatPoints(points, ok, "Not set"))
	return nil
}

// pointSummary totals story points over the user's open sprint tickets.
type pointSummary struct {
	Open   float64 `json:"open"`
	Closed float64 `json:"closed"`
	Total  float64 `json:"total"`
}

func (a *app) summarizePoints(ctx context.Context) error {
	fieldID, err := a.storyPointsField(ctx)
	if err != nil {
		return err
	}

	sum := func(done bool) (float64, error) {
		issues, err := a.client.ListTickets(ctx, jira.SearchQuery{ShowDone: done}, fieldID)
		if err != nil {
			return 0, err
		}
		var total float64
		for i := range issues {
			if p, ok := issues[i].StoryPoints(fieldID); ok {
				total += p
			}
		}
		return total, nil
	}

	var s pointSummary
	if s.Open, err = sum(false); err != nil {
		return err
	}
	if s.Closed, err = sum(true); err != nil {
		return err
	}
	s.Total = s.Open + s.Closed

	if a.json {
		return a.emitJSON(s)
	}
	a.printf("--- Story Point Summary (Your Tickets in Open Sprints) ---\n")
	a.printf("  Open:   %s\n", formatPoints(s.Open, true, ""))
	a.printf("  Closed: %s\n", formatPoints(s.Closed, true, ""))
	a.printf("  Total:  %s\n", formatPoints(s.Total, true, ""))
	return nil
}
