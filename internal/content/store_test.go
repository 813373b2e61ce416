package content

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	store, err := Load(nil)
	require.NoError(t, err)

	assert.Len(t, store.Projects(), 6)
	assert.Len(t, store.Services(), 3)
	assert.Len(t, store.Categories(), 5)

	posts := store.Posts()
	require.Len(t, posts, 4)
	for i, p := range posts {
		assert.Equal(t, i+1, p.ID, "posts are ordered by id")
		_, ok := store.Category(p.Category)
		assert.True(t, ok, "post %s has a registered category", p.Slug)
		assert.NotEmpty(t, p.Content)
	}

	first := posts[0]
	assert.Equal(t, "python-automation-scripts-icelandic-business", first.Slug)
	assert.Equal(t, time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), first.PublishedDate)
	assert.Equal(t, 8, first.ReadingTime)
	assert.True(t, first.IsPublished())

	draft := posts[3]
	assert.Equal(t, PostDraft, draft.Status)
	assert.Equal(t, draft.PublishedDate, draft.UpdatedDate, "missing updated date defaults to published")
	assert.Equal(t, 1, draft.ReadingTime, "missing reading time is computed")
}

func TestStoreReturnsCopies(t *testing.T) {
	store, err := Load(nil)
	require.NoError(t, err)

	projects := store.Projects()
	projects[0].Title = "changed"
	assert.NotEqual(t, "changed", store.Projects()[0].Title)
}

func TestNewRejectsInvalidData(t *testing.T) {
	data := Data{
		Projects: []Project{
			{ID: 1, Status: StatusCompleted, CompletionRate: 100},
			{ID: 1, Status: "abandoned", CompletionRate: 120},
		},
		Categories: []Category{{Key: "automation"}},
		Posts: []Post{
			{ID: 1, Slug: "ok-post", Status: PostPublished, Category: "automation"},
			{ID: 1, Slug: "ok-post", Status: PostPublished, Category: "automation"},
			{ID: 2, Slug: "Bad Slug", Status: "archived", Category: "missing"},
		},
	}

	_, err := New(data, nil)
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"project 1: duplicate id",
		`project 1: unknown status "abandoned"`,
		"completion rate 120 out of range",
		"post 1: duplicate id",
		`duplicate slug "ok-post"`,
		`invalid slug "Bad Slug"`,
		`unknown status "archived"`,
		`unknown category "missing"`,
	} {
		assert.Contains(t, msg, want)
	}
}

func TestNewWarnsOnIncompleteCompletedProject(t *testing.T) {
	logger, hook := test.NewNullLogger()

	_, err := New(Data{Projects: []Project{{ID: 7, Status: StatusCompleted, CompletionRate: 90}}}, logger)
	require.NoError(t, err)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 7, hook.LastEntry().Data["project_id"])
}

func TestLoadFSDerivesSlugFromFileName(t *testing.T) {
	fsys := fstest.MapFS{
		"projects.yaml":   {Data: []byte("[]")},
		"services.yaml":   {Data: []byte("[]")},
		"categories.yaml": {Data: []byte("- key: tutorials\n  name: Tutorials\n")},
		"posts/hello-world.md": {Data: []byte(strings.Join([]string{
			"---",
			"id: 9",
			"title: Hello",
			`published_date: "2025-02-01"`,
			"category: tutorials",
			"status: published",
			"---",
			"Hello body.",
		}, "\n"))},
	}

	store, err := LoadFS(fsys, nil)
	require.NoError(t, err)

	posts := store.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, "hello-world", posts[0].Slug)
	assert.Equal(t, "Hello body.", posts[0].Content)
}

func TestLoadFSRejectsBadDate(t *testing.T) {
	fsys := fstest.MapFS{
		"projects.yaml":   {Data: []byte("[]")},
		"services.yaml":   {Data: []byte("[]")},
		"categories.yaml": {Data: []byte("[]")},
		"posts/x.md":      {Data: []byte("---\nid: 1\npublished_date: yesterday\n---\nbody")},
	}

	_, err := LoadFS(fsys, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "published_date")
}

func TestProjectHelpers(t *testing.T) {
	p := Project{Status: StatusCompleted, Technologies: []string{"Go", "SQLite"}}
	assert.True(t, p.IsCompleted())
	assert.Equal(t, "Go, SQLite", p.TechStack())
	assert.Equal(t, "A, B", Service{Features: []string{"A", "B"}}.FeatureList())
}
