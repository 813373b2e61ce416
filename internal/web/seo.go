package web

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/kussetech/internal/content"
)

const rssItems = 10

func (s *server) robots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", s.baseURL(c))
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

func (s *server) sitemap(c *gin.Context) {
	base := s.baseURL(c)
	set := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	add := func(path, lastMod, freq, priority string) {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + path, LastMod: lastMod, ChangeFreq: freq, Priority: priority})
	}
	add("/", "", "weekly", "1.0")
	add("/about", "", "monthly", "0.8")
	add("/services", "", "monthly", "0.9")
	add("/projects/", "", "weekly", "0.9")
	add("/blog/", "", "weekly", "0.9")
	add("/contact", "", "monthly", "0.7")

	for _, p := range s.projects.All() {
		add("/projects/"+strconv.Itoa(p.ID), "", "monthly", "0.6")
	}
	for _, p := range s.blog.Published() {
		add("/blog/"+p.Slug, p.UpdatedDate.Format("2006-01-02"), "monthly", "0.7")
	}

	writeXML(c, "application/xml; charset=utf-8", set)
}

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	Author      string  `xml:"author,omitempty"`
	Category    string  `xml:"category,omitempty"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

func (s *server) rss(c *gin.Context) {
	base := s.baseURL(c)
	posts := s.blog.Latest(rssItems)

	feed := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       content.SiteName + " Blog",
			Link:        base + "/blog/",
			Description: content.Tagline,
			Language:    "en",
		},
	}
	if len(posts) > 0 {
		feed.Channel.LastBuildDate = posts[0].PublishedDate.Format(time.RFC1123Z)
	}
	for _, p := range posts {
		link := base + "/blog/" + p.Slug
		category := p.Category
		if cat, ok := s.blog.Category(p.Category); ok {
			category = cat.Name
		}
		feed.Channel.Items = append(feed.Channel.Items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Excerpt,
			Author:      p.Author,
			Category:    category,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			PubDate:     p.PublishedDate.Format(time.RFC1123Z),
		})
	}

	writeXML(c, "application/rss+xml; charset=utf-8", feed)
}

func writeXML(c *gin.Context, contentType string, v any) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		requestLogger(c).WithError(err).Error("Failed to encode XML")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(http.StatusOK, contentType, []byte(fmt.Sprintf("%s%s\n", xml.Header, out)))
}
