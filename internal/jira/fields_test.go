package jira

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtcli/jt/internal/fieldcache"
)

func TestFieldKindMatches(t *testing.T) {
	tests := []struct {
		name   string
		kind   FieldKind
		field  string
		wanted bool
	}{
		{"story points", StoryPointsField, "Story Points", true},
		{"story point estimate", StoryPointsField, "Story point estimate", true},
		{"no separator", StoryPointsField, "storypoints", true},
		{"dash separator", StoryPointsField, "Story-Point", true},
		{"upper case", StoryPointsField, "STORY POINTS ESTIMATE", true},
		{"prefix text", StoryPointsField, "Team Story Points", false},
		{"other estimate", StoryPointsField, "Original Estimate", false},
		{"sprint exact", SprintField, "Sprint", true},
		{"sprint lower", SprintField, "sprint", true},
		{"sprint goal", SprintField, "Sprint Goal", false},
		{"sprint vs story", SprintField, "Story Points", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wanted, tt.kind.Matches(tt.field))
		})
	}
}

func TestFindField(t *testing.T) {
	fields := []Field{
		{ID: "summary", Name: "Summary"},
		{ID: "customfield_10016", Name: "Story point estimate", Custom: true},
		{ID: "customfield_10020", Name: "Sprint", Custom: true},
	}
	assert.Equal(t, "customfield_10016", FindField(fields, StoryPointsField))
	assert.Equal(t, "customfield_10020", FindField(fields, SprintField))

	none := []Field{{ID: "summary", Name: "Summary"}}
	assert.Equal(t, "", FindField(none, StoryPointsField))
	assert.Equal(t, "", FindField(none, SprintField))
}

func TestFieldKindCacheKey(t *testing.T) {
	assert.Equal(t, "sp_id", StoryPointsField.CacheKey())
	assert.Equal(t, "sprint_field_id", SprintField.CacheKey())
	assert.Equal(t, "Story Points", StoryPointsField.String())
}

type fakeLister struct {
	fields []Field
	err    error
	calls  int
}

func (f *fakeLister) ListFields(context.Context) ([]Field, error) {
	f.calls++
	return f.fields, f.err
}

func TestFieldResolverReadThrough(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{fields: []Field{
		{ID: "customfield_10016", Name: "Story Points"},
		{ID: "customfield_10020", Name: "Sprint"},
	}}
	cache := fieldcache.NewMemoryStore()
	r := NewFieldResolver(lister, cache)

	id, err := r.FieldID(ctx, StoryPointsField)
	require.NoError(t, err)
	assert.Equal(t, "customfield_10016", id)
	assert.Equal(t, 1, lister.calls)

	// Second lookup is served from the cache.
	id, err = r.FieldID(ctx, StoryPointsField)
	require.NoError(t, err)
	assert.Equal(t, "customfield_10016", id)
	assert.Equal(t, 1, lister.calls)

	cached, ok := cache.Get("sp_id")
	require.True(t, ok)
	assert.Equal(t, "customfield_10016", cached)

	id, err = r.FieldID(ctx, SprintField)
	require.NoError(t, err)
	assert.Equal(t, "customfield_10020", id)
	assert.Equal(t, 2, lister.calls)
}

func TestFieldResolverAbsentIsNotError(t *testing.T) {
	lister := &fakeLister{fields: []Field{{ID: "summary", Name: "Summary"}}}
	cache := fieldcache.NewMemoryStore()
	r := NewFieldResolver(lister, cache)

	for _, kind := range []FieldKind{StoryPointsField, SprintField} {
		id, err := r.FieldID(context.Background(), kind)
		require.NoError(t, err)
		assert.Equal(t, "", id)
	}
	// Misses are not cached, so the next run asks again.
	assert.Equal(t, 0, cache.Writes())
}

func TestFieldResolverDiscoveryFailure(t *testing.T) {
	lister := &fakeLister{err: &RequestError{StatusCode: 401, Status: "401 Unauthorized"}}
	r := NewFieldResolver(lister, fieldcache.NewMemoryStore())

	_, err := r.FieldID(context.Background(), StoryPointsField)
	var derr *DiscoveryError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "401 Unauthorized", derr.Status)
	assert.Equal(t, "could not fetch fields: 401 Unauthorized", err.Error())

	var reqErr *RequestError
	assert.True(t, errors.As(err, &reqErr), "request error stays reachable")
}

func TestFieldResolverCorruptCacheFallsBack(t *testing.T) {
	store := fieldcache.NewFileStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path("sp_id"), []byte("\n\n"), 0600))

	lister := &fakeLister{fields: []Field{{ID: "customfield_7", Name: "Story Points"}}}
	r := NewFieldResolver(lister, store)

	id, err := r.FieldID(context.Background(), StoryPointsField)
	require.NoError(t, err)
	assert.Equal(t, "customfield_7", id)
	assert.Equal(t, 1, lister.calls)

	got, ok := store.Get("sp_id")
	require.True(t, ok)
	assert.Equal(t, "customfield_7", got)
}

func TestFieldResolverUnwritableCache(t *testing.T) {
	store := fieldcache.NewFileStore(t.TempDir() + "/missing")
	lister := &fakeLister{fields: []Field{{ID: "customfield_7", Name: "Sprint"}}}
	r := NewFieldResolver(lister, store)

	id, err := r.FieldID(context.Background(), SprintField)
	require.NoError(t, err)
	assert.Equal(t, "customfield_7", id)
}

func TestClientListFields(t *testing.T) {
	m := newMockJira(t)
	m.on(http.MethodGet, "/rest/api/3/field", 200, []Field{
		{ID: "customfield_10016", Name: "Story point estimate", Custom: true},
		{ID: "customfield_10020", Name: "Sprint", Custom: true},
	})

	r := NewFieldResolver(m.client(), fieldcache.NewMemoryStore())
	sp, err := r.FieldID(context.Background(), StoryPointsField)
	require.NoError(t, err)
	assert.Equal(t, "customfield_10016", sp)

	sprint, err := r.FieldID(context.Background(), SprintField)
	require.NoError(t, err)
	assert.Equal(t, "customfield_10020", sprint)
}

func TestClientListFieldsFailure(t *testing.T) {
	m := newMockJira(t)
	m.on(http.MethodGet, "/rest/api/3/field", http.StatusForbidden, `{"errorMessages":["nope"]}`)

	r := NewFieldResolver(m.client(), fieldcache.NewMemoryStore())
	_, err := r.FieldID(context.Background(), SprintField)
	var derr *DiscoveryError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "403 Forbidden", derr.Status)
}
