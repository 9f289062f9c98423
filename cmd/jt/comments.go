package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jtcli/jt/internal/adf"
	"github.com/jtcli/jt/internal/debug"
	"github.com/jtcli/jt/internal/jira"
	"github.com/jtcli/jt/internal/ui"
)

// commentTimeLayout formats comment timestamps in local time.
const commentTimeLayout = "2006-01-02 15:04:05 MST"

var commentsCmd = &cobra.Command{
	Use:     "comments <ticket-id>",
	GroupID: GroupTickets,
	Short:   "List all comments on a ticket",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, a *app) error {
			return a.runComments(ctx, args[0])
		})
	},
}

var commentCmd = &cobra.Command{
	Use:     "comment <ticket-id> [text]",
	GroupID: GroupTickets,
	Short:   "Add a comment to a ticket, opening $EDITOR when no text is given",
	Args:    cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		text := ""
		if len(args) > 1 {
			text = args[1]
		}
		run(func(ctx context.Context, a *app) error {
			return a.runComment(ctx, args[0], text)
		})
	},
}

func init() {
	rootCmd.AddCommand(commentsCmd, commentCmd)
}

// commentView is one comment in --json output.
type commentView struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Created string `json:"created"`
	Body    string `json:"body"`
}

func (a *app) runComments(ctx context.Context, key string) error {
	comments, err := a.client.Comments(ctx, key)
	if err != nil {
		return err
	}

	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		v := commentView{ID: c.ID, Created: c.Created}
		if c.Author != nil {
			v.Author = c.Author.DisplayName
		}
		if v.Body, err = adf.RawToMarkdown(c.Body); err != nil {
			return err
		}
		views = append(views, v)
	}

	if a.json {
		return a.emitJSON(views)
	}
	if len(views) == 0 {
		a.printf("No comments found for this ticket.\n")
		return nil
	}

	blocks := make([]string, 0, len(views))
	for _, v := range views {
		created := v.Created
		if t, err := jira.ParseTimestamp(v.Created); err == nil {
			created = t.Local().Format(commentTimeLayout)
		} else {
			debug.Logf("comment %s: %v\n", v.ID, err)
		}
		header := ui.RenderWarn(v.Author + " | " + created)
		blocks = append(blocks, header+"\n\n"+ui.Indent(v.Body, 4))
	}
	return a.page(strings.Join(blocks, "\n\n") + "\n")
}

func (a *app) runComment(ctx context.Context, key, text string) error {
	key = jira.NormalizeKey(key)
	if text == "" {
		a.progressf("Opening editor... (save and close the file to post comment)\n")
		edited, err := a.editor.Edit(ctx, "comment", "")
		if err != nil {
			return err
		}
		text = edited
	}

	if strings.TrimSpace(text) == "" {
		a.printf("Comment is empty. Aborting.\n")
		return nil
	}

	body, err := adf.FromMarkdown(text)
	if err != nil {
		return err
	}
	a.progressf("Adding comment to %s...\n", key)
	added, err := a.client.AddComment(ctx, key, body)
	if err != nil {
		return err
	}
	if a.json {
		return a.emitJSON(map[string]string{"key": key, "comment_id": added.ID})
	}
	a.printf("\nSuccessfully added comment to %s.\n", key)
	return nil
}
