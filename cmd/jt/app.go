package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jtcli/jt/internal/config"
	"github.com/jtcli/jt/internal/debug"
	"github.com/jtcli/jt/internal/editor"
	"github.com/jtcli/jt/internal/fieldcache"
	"github.com/jtcli/jt/internal/jira"
	"github.com/jtcli/jt/internal/ui"
)

// app carries everything a command needs for one invocation.
type app struct {
	cfg    *config.Config
	client *jira.Client
	fields *jira.FieldResolver
	editor *editor.Editor

	out     io.Writer
	json    bool
	quiet   bool
	noPager bool
}

func newApp(c *config.Config) (*app, error) {
	creds, err := c.Credentials()
	if err != nil {
		return nil, err
	}
	client := jira.NewClient(creds)
	return &app{
		cfg:     c,
		client:  client,
		fields:  jira.NewFieldResolver(client, fieldcache.NewFileStore(c.CacheDir)),
		editor:  editor.New(c.EditorCommand()),
		out:     os.Stdout,
		json:    jsonOutput,
		quiet:   debug.IsQuiet(),
		noPager: noPager,
	}, nil
}

// mustApp builds the app for the loaded config or exits.
func mustApp() *app {
	a, err := newApp(cfg)
	exitOnError(err)
	return a
}

// run executes a command body and exits on failure.
func run(fn func(ctx context.Context, a *app) error) {
	a := mustApp()
	exitOnError(fn(rootCtx, a))
}

// printf writes command output.
func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// progressf writes progress messages, suppressed by --quiet and --json.
func (a *app) progressf(format string, args ...interface{}) {
	if a.quiet || a.json {
		return
	}
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) emitJSON(v interface{}) error {
	return writeJSON(a.out, v)
}

// page sends long output through the pager.
func (a *app) page(content string) error {
	return ui.ToPager(content, ui.PagerOptions{NoPager: a.noPager, Out: a.out})
}

// storyPointsField resolves the Story Points field, which some commands
// cannot work without.
func (a *app) storyPointsField(ctx context.Context) (string, error) {
	id, err := a.fields.FieldID(ctx, jira.StoryPointsField)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", &jira.NotFoundError{
			Kind:    "field",
			Query:   jira.StoryPointsField.String(),
			Message: "'Story Points' field not found in this Jira instance.",
		}
	}
	return id, nil
}

// projectOrInfer upper-cases an explicit project key, or infers one from
// the user's most recently updated ticket.
func (a *app) projectOrInfer(ctx context.Context, project string) (string, error) {
	if project != "" {
		return upper(project), nil
	}
	a.progressf("No project specified, inferring from your recent tickets...\n")
	key, err := a.client.InferProjectKey(ctx)
	if err != nil {
		return "", err
	}
	a.progressf("Using project: %s\n", key)
	return key, nil
}
