package main

import (
	"encoding/json"
	"io"
	"os"
)

// writeJSON writes v as pretty-printed JSON.
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// outputJSONError outputs an error as JSON to stderr and exits with code 1.
func outputJSONError(err error, code string) {
	errObj := map[string]string{"error": err.Error()}
	if code != "" {
		errObj["code"] = code
	}
	_ = writeJSON(os.Stderr, errObj) // best effort, exiting anyway
	os.Exit(1)
}
