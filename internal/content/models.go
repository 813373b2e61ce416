package content

import (
	"strings"
	"time"
)

type ProjectStatus string

const (
	StatusCompleted  ProjectStatus = "completed"
	StatusInProgress ProjectStatus = "in_progress"
	StatusPlanned    ProjectStatus = "planned"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusInProgress, StatusPlanned:
		return true
	}
	return false
}

// Project is a portfolio entry. GitHubURL and DemoURL are empty when absent.
type Project struct {
	ID             int           `yaml:"id" json:"id"`
	Title          string        `yaml:"title" json:"title"`
	Description    string        `yaml:"description" json:"description"`
	Technologies   []string      `yaml:"technologies" json:"technologies"`
	GitHubURL      string        `yaml:"github_url" json:"github_url,omitempty"`
	DemoURL        string        `yaml:"demo_url" json:"demo_url,omitempty"`
	Image          string        `yaml:"image" json:"image"`
	Icon           string        `yaml:"icon" json:"icon"`
	Featured       bool          `yaml:"featured" json:"featured"`
	Status         ProjectStatus `yaml:"status" json:"status"`
	Client         string        `yaml:"client" json:"client"`
	Date           string        `yaml:"date" json:"date"`
	Category       string        `yaml:"category" json:"category"`
	CompletionRate int           `yaml:"completion_rate" json:"completion_rate"`
	Duration       string        `yaml:"duration" json:"duration"`
	Impact         string        `yaml:"impact" json:"impact"`
}

func (p Project) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// TechStack joins the technologies for display.
func (p Project) TechStack() string {
	return strings.Join(p.Technologies, ", ")
}

type Service struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Icon        string   `yaml:"icon" json:"icon"`
	Features    []string `yaml:"features" json:"features"`
}

func (s Service) FeatureList() string {
	return strings.Join(s.Features, ", ")
}

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == PostDraft || s == PostPublished
}

// Post is a blog article. Content holds the markdown body.
type Post struct {
	ID              int        `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Excerpt         string     `json:"excerpt"`
	Content         string     `json:"content"`
	Author          string     `json:"author"`
	PublishedDate   time.Time  `json:"published_date"`
	UpdatedDate     time.Time  `json:"updated_date"`
	Category        string     `json:"category"`
	Tags            []string   `json:"tags"`
	Featured        bool       `json:"featured"`
	ReadingTime     int        `json:"reading_time"`
	Image           string     `json:"image"`
	MetaDescription string     `json:"meta_description"`
	Status          PostStatus `json:"status"`
}

func (p Post) IsPublished() bool {
	return p.Status == PostPublished
}

func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Category is an entry of the blog taxonomy, keyed by Key.
type Category struct {
	Key         string `yaml:"key" json:"key"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Color       string `yaml:"color" json:"color"`
}
