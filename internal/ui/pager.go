package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Pager environment variables.
const (
	EnvPager   = "JT_PAGER"
	EnvNoPager = "JT_NO_PAGER"
)

// PagerOptions controls pager behavior
type PagerOptions struct {
	// NoPager disables the pager (--no-pager flag)
	NoPager bool
	// Out receives the content when no pager runs. Defaults to os.Stdout.
	Out io.Writer
}

// pagerCommand returns the pager argv: JT_PAGER, then PAGER, then less.
func pagerCommand(getenv func(string) string) []string {
	for _, key := range []string{EnvPager, "PAGER"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return strings.Fields(v)
		}
	}
	return []string{"less"}
}

// needsPager reports whether content of n lines should be paged on a
// terminal of the given height. height 0 means unknown.
func needsPager(lines, height int) bool {
	if height <= 0 {
		return true
	}
	return lines > height-1
}

func lineCount(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(content, "\n"), "\n") + 1
}

// ToPager writes content through a pager when stdout is a terminal and the
// content does not fit on screen. Otherwise it prints directly.
func ToPager(content string, opts PagerOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if opts.NoPager || os.Getenv(EnvNoPager) != "" || out != os.Stdout || !IsTerminal() {
		_, err := fmt.Fprint(out, content)
		return err
	}

	_, height := terminalSize()
	if !needsPager(lineCount(content), height) {
		_, err := fmt.Fprint(out, content)
		return err
	}

	argv := pagerCommand(os.Getenv)
	cmd := exec.Command(argv[0], argv[1:]...) // #nosec G204 - pager command is user-configurable by design
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// -R: Allow ANSI color codes
	// -F: Quit if content fits on one screen
	// -X: Don't clear screen on exit
	cmd.Env = os.Environ()
	if os.Getenv("LESS") == "" {
		cmd.Env = append(cmd.Env, "LESS=-RFX")
	}

	return cmd.Run()
}
