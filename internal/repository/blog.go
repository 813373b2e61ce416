package repository

import (
	"sort"
	"strings"

	"github.com/Zachkp/kussetech/internal/content"
)

// Limits applied when a caller passes a limit below 1.
const (
	DefaultRelatedLimit  = 3
	DefaultTagLimit      = 10
	DefaultFeaturedLimit = 3
	DefaultLatestLimit   = 10
)

// Filter narrows a blog listing. Empty fields do not filter.
type Filter struct {
	Category string
	Tag      string
	Search   string
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type BlogRepository struct {
	store *content.Store
}

func NewBlogRepository(store *content.Store) *BlogRepository {
	return &BlogRepository{store: store}
}

func (r *BlogRepository) published() []content.Post {
	var posts []content.Post
	for _, p := range r.store.Posts() {
		if p.IsPublished() {
			posts = append(posts, p)
		}
	}
	return posts
}

// List applies filter to the published posts, orders them newest first and
// returns the requested page.
func (r *BlogRepository) List(filter Filter, page, perPage int) ([]content.Post, PageInfo) {
	posts := r.published()

	if filter.Category != "" {
		posts = keep(posts, func(p content.Post) bool { return p.Category == filter.Category })
	}
	if filter.Tag != "" {
		posts = keep(posts, func(p content.Post) bool { return p.HasTag(filter.Tag) })
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		posts = keep(posts, func(p content.Post) bool {
			return strings.Contains(strings.ToLower(p.Title), search) ||
				strings.Contains(strings.ToLower(p.Excerpt), search) ||
				strings.Contains(strings.ToLower(strings.Join(p.Tags, " ")), search)
		})
	}

	sortNewestFirst(posts)
	return paginate(posts, page, perPage)
}

// BySlug only finds published posts.
func (r *BlogRepository) BySlug(slug string) (content.Post, bool) {
	for _, p := range r.store.Posts() {
		if p.Slug == slug && p.IsPublished() {
			return p, true
		}
	}
	return content.Post{}, false
}

// Related returns published posts sharing post's category, in definition
// order, without post itself.
func (r *BlogRepository) Related(post content.Post, limit int) []content.Post {
	if limit < 1 {
		limit = DefaultRelatedLimit
	}
	var related []content.Post
	for _, p := range r.published() {
		if len(related) == limit {
			break
		}
		if p.Category == post.Category && p.ID != post.ID {
			related = append(related, p)
		}
	}
	return related
}

// Adjacent returns the published posts immediately before and after post in
// publication order. Either may be nil.
func (r *BlogRepository) Adjacent(post content.Post) (prev, next *content.Post) {
	posts := r.published()
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedDate.Before(posts[j].PublishedDate)
	})

	idx := -1
	for i, p := range posts {
		if p.ID == post.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}
	if idx > 0 {
		prev = &posts[idx-1]
	}
	if idx < len(posts)-1 {
		next = &posts[idx+1]
	}
	return prev, next
}

// PopularTags counts tags across every post, drafts included, most used
// first. Ties keep the order tags were first seen in.
func (r *BlogRepository) PopularTags(limit int) []TagCount {
	if limit < 1 {
		limit = DefaultTagLimit
	}
	index := make(map[string]int)
	var counts []TagCount
	for _, p := range r.store.Posts() {
		for _, tag := range p.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(counts)
				index[tag] = i
				counts = append(counts, TagCount{Tag: tag})
			}
			counts[i].Count++
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// Featured returns up to limit featured published posts in definition order.
func (r *BlogRepository) Featured(limit int) []content.Post {
	if limit < 1 {
		limit = DefaultFeaturedLimit
	}
	var featured []content.Post
	for _, p := range r.published() {
		if len(featured) == limit {
			break
		}
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured
}

// Latest returns up to limit published posts, newest first.
func (r *BlogRepository) Latest(limit int) []content.Post {
	if limit < 1 {
		limit = DefaultLatestLimit
	}
	posts := r.Published()
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

// Published returns every published post, newest first.
func (r *BlogRepository) Published() []content.Post {
	posts := r.published()
	sortNewestFirst(posts)
	return posts
}

func (r *BlogRepository) Categories() []content.Category {
	return r.store.Categories()
}

func (r *BlogRepository) Category(key string) (content.Category, bool) {
	return r.store.Category(key)
}

func sortNewestFirst(posts []content.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedDate.After(posts[j].PublishedDate)
	})
}

func keep(posts []content.Post, match func(content.Post) bool) []content.Post {
	var kept []content.Post
	for _, p := range posts {
		if match(p) {
			kept = append(kept, p)
		}
	}
	return kept
}
