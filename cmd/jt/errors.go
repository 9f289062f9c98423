package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jtcli/jt/internal/config"
	"github.com/jtcli/jt/internal/jira"
)

// Error codes reported with --json.
const (
	codeMissingConfig = "missing_configuration"
	codeDiscovery     = "discovery_failure"
	codeNotFound      = "not_found"
	codeAmbiguous     = "ambiguous_match"
	codeRemote        = "remote_request_failure"
	codeUsage         = "usage"
	codeInternal      = "error"
)

// usageError reports invalid arguments or flag values.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// errorCode classifies err for machine-readable output.
func errorCode(err error) string {
	var (
		missing   *config.MissingConfigError
		discovery *jira.DiscoveryError
		notFound  *jira.NotFoundError
		ambiguous *jira.AmbiguousMatchError
		request   *jira.RequestError
		usage     *usageError
	)
	switch {
	case errors.As(err, &missing):
		return codeMissingConfig
	// DiscoveryError wraps a RequestError, so it is checked first.
	case errors.As(err, &discovery):
		return codeDiscovery
	case errors.As(err, &notFound):
		return codeNotFound
	case errors.As(err, &ambiguous):
		return codeAmbiguous
	case errors.As(err, &request):
		return codeRemote
	case errors.As(err, &usage):
		return codeUsage
	default:
		return codeInternal
	}
}

// exitOnError does nothing for a nil error. Otherwise it reports err,
// as JSON when --json is set, and exits with code 1.
func exitOnError(err error) {
	if err == nil {
		return
	}
	if jsonOutput {
		outputJSONError(err, errorCode(err))
	}
	FatalError("%v", err)
}

// FatalError writes an error message to stderr and exits with code 1.
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// WarnError writes a warning message to stderr and returns.
// Use it for best-effort steps whose failure does not stop the command.
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
