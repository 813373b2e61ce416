package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/kussetech/internal/content"
	"github.com/Zachkp/kussetech/internal/repository"
)

// listing describes one blog listing page: the filter applied and the path
// pagination links point back to.
type listing struct {
	filter  repository.Filter
	heading string
	path    string
	// query carries the filter values not already encoded in path.
	query url.Values
}

func (s *server) blogIndex(c *gin.Context) {
	filter := repository.Filter{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	query := url.Values{}
	for k, v := range map[string]string{"category": filter.Category, "tag": filter.Tag, "search": filter.Search} {
		if v != "" {
			query.Set(k, v)
		}
	}
	s.renderListing(c, listing{filter: filter, heading: "Blog", path: "/blog/", query: query})
}

func (s *server) blogSearch(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	query := url.Values{}
	heading := "Search"
	if search != "" {
		query.Set("search", search)
		heading = "Search results for \"" + search + "\""
	}
	s.renderListing(c, listing{
		filter:  repository.Filter{Search: search},
		heading: heading,
		path:    "/blog/search",
		query:   query,
	})
}

func (s *server) blogCategory(c *gin.Context) {
	key := c.Param("category")
	category, ok := s.blog.Category(key)
	if !ok {
		s.notFound(c)
		return
	}
	s.renderListing(c, listing{
		filter:  repository.Filter{Category: key},
		heading: category.Name,
		path:    "/blog/category/" + url.PathEscape(key),
		query:   url.Values{},
	})
}

func (s *server) blogTag(c *gin.Context) {
	tag := c.Param("tag")
	s.renderListing(c, listing{
		filter:  repository.Filter{Tag: tag},
		heading: "Posts tagged \"" + tag + "\"",
		path:    "/blog/tag/" + url.PathEscape(tag),
		query:   url.Values{},
	})
}

func (s *server) renderListing(c *gin.Context, l listing) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	posts, info := s.blog.List(l.filter, page, repository.DefaultPerPage)

	data := gin.H{
		"Posts":       posts,
		"Page":        info,
		"Heading":     l.heading,
		"Filter":      l.filter,
		"Categories":  s.blog.Categories(),
		"PopularTags": s.blog.PopularTags(repository.DefaultTagLimit),
		"Featured":    s.blog.Featured(3),
	}
	if info.HasPrev {
		data["PrevURL"] = pageURL(l.path, l.query, info.PrevNum)
	}
	if info.HasNext {
		data["NextURL"] = pageURL(l.path, l.query, info.NextNum)
	}
	c.HTML(http.StatusOK, "blog_index.html", s.page(c, l.heading+" - "+content.SiteName, data))
}

func pageURL(path string, query url.Values, page int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func (s *server) blogPost(c *gin.Context) {
	post, ok := s.blog.BySlug(c.Param("slug"))
	if !ok {
		s.notFound(c)
		return
	}

	body, err := content.RenderMarkdown(post.Content)
	if err != nil {
		requestLogger(c).WithError(err).WithField("slug", post.Slug).Error("Failed to render post")
		s.serverError(c)
		return
	}

	prev, next := s.blog.Adjacent(post)
	c.HTML(http.StatusOK, "blog_post.html", s.page(c, post.Title+" - "+content.SiteName, gin.H{
		"Post":            post,
		"Body":            body,
		"Related":         s.blog.Related(post, repository.DefaultRelatedLimit),
		"Prev":            prev,
		"Next":            next,
		"MetaDescription": post.MetaDescription,
	}))
}
