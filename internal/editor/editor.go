// Package editor runs the user's text editor on a temporary markdown file.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrAborted is returned when the editor exits unsuccessfully.
var ErrAborted = errors.New("editor closed without a successful save")

// Editor launches an external editor. Command may carry arguments,
// e.g. "code --wait".
type Editor struct {
	Command string
	Dir     string // temp file location, os.TempDir() when empty

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Editor wired to the process's terminal.
func New(command string) *Editor {
	return &Editor{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Edit writes initial to a temp file named after purpose, opens the editor
// on it and returns the saved contents. The temp file is always removed.
func (e *Editor) Edit(ctx context.Context, purpose, initial string) (string, error) {
	argv := strings.Fields(e.Command)
	if len(argv) == 0 {
		return "", fmt.Errorf("no editor configured")
	}

	f, err := os.CreateTemp(e.Dir, "jt-"+purpose+"-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := f.WriteString(initial); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...) //nolint:gosec // G204: editor is from user's config
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w (%s: %v)", ErrAborted, argv[0], err)
	}

	data, err := os.ReadFile(path) // #nosec G304 - our own temp file
	if err != nil {
		return "", fmt.Errorf("read temp file: %w", err)
	}
	return string(data), nil
}
