// Package debug holds jt's verbosity switches: request tracing on stderr
// and the --quiet flag.
package debug

import (
	"fmt"
	"os"
)

// EnvDebug turns on tracing when set to any non-empty value.
const EnvDebug = "JT_DEBUG"

var (
	fromEnv = os.Getenv(EnvDebug) != ""
	verbose bool
	quiet   bool
)

// Enabled reports whether tracing is on, via JT_DEBUG or --verbose.
func Enabled() bool {
	return fromEnv || verbose
}

// SetVerbose is wired to --verbose.
func SetVerbose(on bool) {
	verbose = on
}

// SetQuiet is wired to --quiet. Commands consult IsQuiet before printing
// progress messages.
func SetQuiet(on bool) {
	quiet = on
}

func IsQuiet() bool {
	return quiet
}

// Logf writes a trace line to stderr when Enabled.
func Logf(format string, args ...interface{}) {
	if Enabled() {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
