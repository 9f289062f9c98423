package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jtcli/jt/internal/adf"
	"github.com/jtcli/jt/internal/editor"
	"github.com/jtcli/jt/internal/jira"
)

// openEditor is the --description value when the flag is given bare.
const openEditor = "\x00editor"

var editCmd = &cobra.Command{
	Use:     "edit <ticket-id> [--title TITLE] [--description [TEXT]]",
	Aliases: []string{"e"},
	GroupID: GroupTickets,
	Short:   "Edit a ticket's title or description",
	Long: `Edit a ticket's title or description.

--description TEXT replaces the description with TEXT (markdown); an empty
TEXT clears it. --description on its own opens $EDITOR on the current
description.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := editOptionsFromFlags(cmd, args)
		exitOnError(err)
		run(func(ctx context.Context, a *app) error {
			return a.runEdit(ctx, args[0], opts)
		})
	},
}

func init() {
	addEditFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}

func addEditFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Set a new title")
	cmd.Flags().String("description", "", "Set a new description, or open the editor when given without a value")
	cmd.Flags().Lookup("description").NoOptDefVal = openEditor
}

type editOptions struct {
	Title       string
	Description *string // nil when --description was not given
	UseEditor   bool
}

// editOptionsFromFlags reads the edit flags. A flag with an optional
// value cannot take a separate argument, so "--description TEXT" arrives
// as a second positional argument and is folded back in here.
func editOptionsFromFlags(cmd *cobra.Command, args []string) (editOptions, error) {
	var opts editOptions
	opts.Title, _ = cmd.Flags().GetString("title")

	if cmd.Flags().Changed("description") {
		desc, _ := cmd.Flags().GetString("description")
		if desc == openEditor && len(args) == 2 {
			desc = args[1]
			args = args[:1]
		}
		if desc == openEditor {
			opts.UseEditor = true
		} else {
			opts.Description = &desc
		}
	}
	if len(args) > 1 {
		return opts, usageErrorf("unexpected argument %q", args[1])
	}
	if opts.Title == "" && opts.Description == nil && !opts.UseEditor {
		return opts, usageErrorf("You must provide a field to edit, e.g., --title \"New Title\" or --description")
	}
	return opts, nil
}

func (a *app) runEdit(ctx context.Context, key string, opts editOptions) error {
	key = jira.NormalizeKey(key)
	var in jira.UpdateInput
	if opts.Title != "" {
		title := opts.Title
		in.Summary = &title
	}

	switch {
	case opts.Description != nil:
		a.progressf("Updating description from text argument...\n")
		doc, err := descriptionDoc(*opts.Description)
		if err != nil {
			return err
		}
		in.SetDescription, in.Description = true, doc

	case opts.UseEditor:
		doc, changed, err := a.editDescription(ctx, key)
		if err != nil {
			return err
		}
		if changed {
			in.SetDescription, in.Description = true, doc
		}
	}

	if in.Empty() {
		a.printf("No changes to apply.\n")
		return nil
	}
	a.progressf("Updating ticket %s...\n", key)
	if err := a.client.UpdateIssue(ctx, key, jira.UpdatePayload(in)); err != nil {
		return err
	}
	a.printf("Successfully updated ticket %s.\n", key)
	return nil
}

// descriptionDoc converts markdown to a description. Blank text clears it.
func descriptionDoc(markdown string) (*adf.Node, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, nil
	}
	return adf.FromMarkdown(markdown)
}

// editDescription opens the editor on the current description. changed is
// false when the text is unchanged or the editor was abandoned.
func (a *app) editDescription(ctx context.Context, key string) (doc *adf.Node, changed bool, err error) {
	a.progressf("Fetching current description...\n")
	issue, err := a.client.GetIssue(ctx, key, []string{"description"})
	if err != nil {
		return nil, false, err
	}
	initial, err := adf.RawToMarkdown(issue.Fields.Description)
	if err != nil {
		return nil, false, err
	}

	a.progressf("Opening editor... (save and close the file to continue)\n")
	edited, err := a.editor.Edit(ctx, "description", initial)
	if errors.Is(err, editor.ErrAborted) {
		WarnError("Editor closed without successful save. Aborting description update.")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if strings.TrimSpace(edited) == strings.TrimSpace(initial) {
		a.progressf("Description unchanged. Skipping update.\n")
		return nil, false, nil
	}
	doc, err = descriptionDoc(edited)
	if err != nil {
		return nil, false, err
	}
	return doc, true, nil
}
