package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Zachkp/kussetech/internal/content"
)

func embeddedStore(t *testing.T) *content.Store {
	t.Helper()
	store, err := content.Load(nil)
	require.NoError(t, err)
	return store
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

// fixtureStore builds n published posts alternating between two categories,
// post i published on day i, plus one draft.
func fixtureStore(t *testing.T, n int) *content.Store {
	t.Helper()
	data := content.Data{
		Categories: []content.Category{{Key: "automation"}, {Key: "tutorials"}},
	}
	for i := 1; i <= n; i++ {
		category := "automation"
		if i%2 == 0 {
			category = "tutorials"
		}
		data.Posts = append(data.Posts, content.Post{
			ID:            i,
			Slug:          fmt.Sprintf("post-%d", i),
			Title:         fmt.Sprintf("Post %d", i),
			Excerpt:       "An excerpt",
			Category:      category,
			Tags:          []string{"go", fmt.Sprintf("tag-%d", i%3)},
			PublishedDate: day(i),
			Featured:      i%4 == 0,
			Status:        content.PostPublished,
		})
	}
	data.Posts = append(data.Posts, content.Post{
		ID:            n + 1,
		Slug:          "draft-post",
		Title:         "Secret Draft",
		Category:      "automation",
		Tags:          []string{"draft-only", "draft-only-2"},
		PublishedDate: day(28),
		Status:        content.PostDraft,
	})

	store, err := content.New(data, nil)
	require.NoError(t, err)
	return store
}
