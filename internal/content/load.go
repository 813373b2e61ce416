package content

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed data
var embedded embed.FS

const dateLayout = "2006-01-02"

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

type postMatter struct {
	ID              int      `yaml:"id"`
	Slug            string   `yaml:"slug"`
	Title           string   `yaml:"title"`
	Excerpt         string   `yaml:"excerpt"`
	Author          string   `yaml:"author"`
	PublishedDate   string   `yaml:"published_date"`
	UpdatedDate     string   `yaml:"updated_date"`
	Category        string   `yaml:"category"`
	Tags            []string `yaml:"tags"`
	Featured        bool     `yaml:"featured"`
	ReadingTime     int      `yaml:"reading_time"`
	Image           string   `yaml:"image"`
	MetaDescription string   `yaml:"meta_description"`
	Status          string   `yaml:"status"`
}

// Load builds the Store from the content compiled into the binary.
func Load(logger logrus.FieldLogger) (*Store, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub, logger)
}

// LoadFS builds a Store from projects.yaml, services.yaml, categories.yaml and
// posts/*.md in fsys.
func LoadFS(fsys fs.FS, logger logrus.FieldLogger) (*Store, error) {
	var data Data
	if err := readYAML(fsys, "projects.yaml", &data.Projects); err != nil {
		return nil, err
	}
	if err := readYAML(fsys, "services.yaml", &data.Services); err != nil {
		return nil, err
	}
	if err := readYAML(fsys, "categories.yaml", &data.Categories); err != nil {
		return nil, err
	}

	files, err := fs.Glob(fsys, "posts/*.md")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	for _, name := range files {
		post, err := readPost(fsys, name)
		if err != nil {
			return nil, err
		}
		data.Posts = append(data.Posts, post)
	}
	// File names only fix the read order; definition order is by id.
	sort.SliceStable(data.Posts, func(i, j int) bool {
		return data.Posts[i].ID < data.Posts[j].ID
	})

	store, err := New(data, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"projects": len(data.Projects),
			"services": len(data.Services),
			"posts":    len(data.Posts),
		}).Debug("Content store loaded")
	}
	return store, nil
}

func readYAML(fsys fs.FS, name string, target any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("error unmarshalling %s: %w", name, err)
	}
	return nil
}

func readPost(fsys fs.FS, name string) (Post, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Post{}, fmt.Errorf("error reading %s: %w", name, err)
	}

	var fm postMatter
	body, err := frontmatter.MustParse(bytes.NewReader(raw), &fm, yamlFormat)
	if err != nil {
		return Post{}, fmt.Errorf("error parsing frontmatter of %s: %w", name, err)
	}

	published, err := time.Parse(dateLayout, fm.PublishedDate)
	if err != nil {
		return Post{}, fmt.Errorf("%s: published_date: %w", name, err)
	}
	updated := published
	if fm.UpdatedDate != "" {
		if updated, err = time.Parse(dateLayout, fm.UpdatedDate); err != nil {
			return Post{}, fmt.Errorf("%s: updated_date: %w", name, err)
		}
	}

	slug := fm.Slug
	if slug == "" {
		slug = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}

	return Post{
		ID:              fm.ID,
		Slug:            slug,
		Title:           fm.Title,
		Excerpt:         fm.Excerpt,
		Content:         strings.TrimSpace(string(body)),
		Author:          fm.Author,
		PublishedDate:   published,
		UpdatedDate:     updated,
		Category:        fm.Category,
		Tags:            fm.Tags,
		Featured:        fm.Featured,
		ReadingTime:     fm.ReadingTime,
		Image:           fm.Image,
		MetaDescription: fm.MetaDescription,
		Status:          PostStatus(fm.Status),
	}, nil
}
