package jira

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jtcli/jt/internal/debug"
	"github.com/jtcli/jt/internal/fieldcache"
)

// FieldKind names a field whose ID differs between Jira sites.
type FieldKind int

const (
	StoryPointsField FieldKind = iota
	SprintField
)

// Matches "Story Points", "Story point estimate", "storypoints", ...
// Sites that name the field differently are reported as not having it.
var storyPointsPattern = regexp.MustCompile(`(?i)^story.?points?( estimate)?$`)

func (k FieldKind) String() string {
	switch k {
	case StoryPointsField:
		return "Story Points"
	case SprintField:
		return "Sprint"
	}
	return "unknown"
}

// CacheKey is the key the field's ID is cached under.
func (k FieldKind) CacheKey() string {
	switch k {
	case StoryPointsField:
		return "sp_id"
	case SprintField:
		return "sprint_field_id"
	}
	return ""
}

// Matches reports whether a field display name is this kind of field.
func (k FieldKind) Matches(name string) bool {
	switch k {
	case StoryPointsField:
		return storyPointsPattern.MatchString(name)
	case SprintField:
		return strings.EqualFold(name, "sprint")
	}
	return false
}

// FindField returns the ID of the first field of kind in fields, or ""
// when the site has no such field.
func FindField(fields []Field, kind FieldKind) string {
	for _, f := range fields {
		if kind.Matches(f.Name) {
			return f.ID
		}
	}
	return ""
}

// ListFields returns the site's field metadata.
func (c *Client) ListFields(ctx context.Context) ([]Field, error) {
	var fields []Field
	if err := c.get(ctx, "fetch fields", c.apiURL("/field"), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// FieldLister is the part of Client used for discovery.
type FieldLister interface {
	ListFields(ctx context.Context) ([]Field, error)
}

// FieldResolver finds dynamic field IDs, reading through a cache and
// falling back to the field metadata endpoint.
type FieldResolver struct {
	lister FieldLister
	cache  fieldcache.Store
}

// NewFieldResolver returns a resolver over lister and cache.
func NewFieldResolver(lister FieldLister, cache fieldcache.Store) *FieldResolver {
	return &FieldResolver{lister: lister, cache: cache}
}

// Discover asks Jira for the field's ID. An empty ID with a nil error means
// the site has no such field. Fetch failures are *DiscoveryError.
func (r *FieldResolver) Discover(ctx context.Context, kind FieldKind) (string, error) {
	fields, err := r.lister.ListFields(ctx)
	if err != nil {
		derr := &DiscoveryError{Field: kind.String(), Err: err}
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			derr.Status = reqErr.Status
		}
		return "", derr
	}
	return FindField(fields, kind), nil
}

// FieldID returns the cached ID for kind, or discovers it and caches a
// hit. Cache write failures are ignored.
func (r *FieldResolver) FieldID(ctx context.Context, kind FieldKind) (string, error) {
	if id, ok := r.cache.Get(kind.CacheKey()); ok {
		return id, nil
	}

	id, err := r.Discover(ctx, kind)
	if err != nil || id == "" {
		return "", err
	}

	if err := r.cache.Set(kind.CacheKey(), id); err != nil {
		debug.Logf("fieldcache: write %s: %v\n", kind.CacheKey(), err)
	}
	return id, nil
}
