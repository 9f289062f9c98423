package jira

import (
	"fmt"
	"strings"
)

// RequestError is a non-2xx response. The message carries the status line
// and the response body verbatim.
type RequestError struct {
	Op         string // what jt was doing, e.g. "fetch ticket PROJ-1"
	Method     string
	URL        string
	StatusCode int
	Status     string // "404 Not Found"
	Body       string
}

func (e *RequestError) Error() string {
	msg := e.Status
	if msg == "" {
		msg = fmt.Sprintf("%d", e.StatusCode)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Body != "" {
		msg += "\n" + e.Body
	}
	return msg
}

// DiscoveryError means the field metadata could not be fetched. A field
// that simply does not exist is not an error.
type DiscoveryError struct {
	Field  string
	Status string // HTTP status text when the server answered
	Err    error
}

func (e *DiscoveryError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("could not fetch fields: %s", e.Status)
	}
	return fmt.Sprintf("could not fetch fields: %v", e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// NotFoundError means a lookup matched nothing.
type NotFoundError struct {
	Kind    string // "user", "sprint", "transition", "board", "field", ...
	Query   string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("No %s found matching '%s'", e.Kind, e.Query)
}

// AmbiguousMatchError means a fuzzy lookup matched more than one entity.
type AmbiguousMatchError struct {
	Kind       string
	Query      string
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("Multiple %ss match your query: %s. Please be more specific.",
		e.Kind, strings.Join(e.Candidates, ", "))
}
