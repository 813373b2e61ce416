package content

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Data is the raw content a Store is built from.
type Data struct {
	Projects   []Project
	Services   []Service
	Posts      []Post
	Categories []Category
}

// Store is the immutable, process-wide content set. Accessors return copies
// so callers cannot mutate it.
type Store struct {
	projects   []Project
	services   []Service
	posts      []Post
	categories []Category
	category   map[string]int
}

// New validates data and builds a Store. Every violation is reported in the
// returned error.
func New(data Data, logger logrus.FieldLogger) (*Store, error) {
	var result *multierror.Error

	projectIDs := make(map[int]bool, len(data.Projects))
	for _, p := range data.Projects {
		if projectIDs[p.ID] {
			result = multierror.Append(result, fmt.Errorf("project %d: duplicate id", p.ID))
		}
		projectIDs[p.ID] = true
		if !p.Status.Valid() {
			result = multierror.Append(result, fmt.Errorf("project %d: unknown status %q", p.ID, p.Status))
		}
		if p.CompletionRate < 0 || p.CompletionRate > 100 {
			result = multierror.Append(result, fmt.Errorf("project %d: completion rate %d out of range", p.ID, p.CompletionRate))
		}
		if p.IsCompleted() && p.CompletionRate != 100 && logger != nil {
			logger.WithField("project_id", p.ID).Warnf("Project marked completed with completion rate %d", p.CompletionRate)
		}
	}

	categoryIndex := make(map[string]int, len(data.Categories))
	for i, c := range data.Categories {
		if _, ok := categoryIndex[c.Key]; ok {
			result = multierror.Append(result, fmt.Errorf("category %q: duplicate key", c.Key))
		}
		categoryIndex[c.Key] = i
	}

	postIDs := make(map[int]bool, len(data.Posts))
	slugs := make(map[string]bool, len(data.Posts))
	posts := make([]Post, len(data.Posts))
	for i, p := range data.Posts {
		if postIDs[p.ID] {
			result = multierror.Append(result, fmt.Errorf("post %d: duplicate id", p.ID))
		}
		postIDs[p.ID] = true
		if !slugPattern.MatchString(p.Slug) {
			result = multierror.Append(result, fmt.Errorf("post %d: invalid slug %q", p.ID, p.Slug))
		}
		if slugs[p.Slug] {
			result = multierror.Append(result, fmt.Errorf("post %d: duplicate slug %q", p.ID, p.Slug))
		}
		slugs[p.Slug] = true
		if !p.Status.Valid() {
			result = multierror.Append(result, fmt.Errorf("post %d: unknown status %q", p.ID, p.Status))
		}
		if _, ok := categoryIndex[p.Category]; !ok {
			result = multierror.Append(result, fmt.Errorf("post %d: unknown category %q", p.ID, p.Category))
		}
		if p.ReadingTime <= 0 {
			p.ReadingTime = CalculateReadingTime(p.Content)
		}
		posts[i] = p
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Store{
		projects:   append([]Project(nil), data.Projects...),
		services:   append([]Service(nil), data.Services...),
		posts:      posts,
		categories: append([]Category(nil), data.Categories...),
		category:   categoryIndex,
	}, nil
}

func (s *Store) Projects() []Project {
	return append([]Project(nil), s.projects...)
}

func (s *Store) Services() []Service {
	return append([]Service(nil), s.services...)
}

// Posts returns every post, drafts included, in definition order.
func (s *Store) Posts() []Post {
	return append([]Post(nil), s.posts...)
}

func (s *Store) Categories() []Category {
	return append([]Category(nil), s.categories...)
}

func (s *Store) Category(key string) (Category, bool) {
	i, ok := s.category[key]
	if !ok {
		return Category{}, false
	}
	return s.categories[i], true
}
