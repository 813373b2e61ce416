// Package web is the HTTP layer of the site.
package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Zachkp/kussetech/internal/analytics"
	"github.com/Zachkp/kussetech/internal/assets"
	"github.com/Zachkp/kussetech/internal/config"
	"github.com/Zachkp/kussetech/internal/content"
	"github.com/Zachkp/kussetech/internal/integrations/github"
	"github.com/Zachkp/kussetech/internal/mail"
	"github.com/Zachkp/kussetech/internal/repository"
)

const sessionName = "kussetech_session"

// RepoStats looks up repository statistics for the project detail page.
type RepoStats interface {
	RepositoryStats(ctx context.Context, owner, repo string) (*github.Stats, error)
}

// VisitRecorder stores page views.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, ip, userAgent, path string)
}

// Deps are the collaborators of the site. Tracker, Visits, Mailer and GitHub
// are optional.
type Deps struct {
	Config  config.Config
	Logger  logrus.FieldLogger
	Content *content.Store
	Tracker analytics.Tracker
	Visits  VisitRecorder
	Mailer  mail.Sender
	GitHub  RepoStats
}

type server struct {
	cfg      config.Config
	logger   logrus.FieldLogger
	projects *repository.ProjectRepository
	services *repository.ServiceRepository
	blog     *repository.BlogRepository
	tracker  analytics.Tracker
	mailer   mail.Sender
	github   RepoStats
}

// New builds the gin engine with every route registered.
func New(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Tracker == nil {
		deps.Tracker = analytics.Nop{}
	}
	if deps.Mailer == nil {
		deps.Mailer = mail.NewSender(deps.Config)
	}

	s := &server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		projects: repository.NewProjectRepository(deps.Content),
		services: repository.NewServiceRepository(deps.Content),
		blog:     repository.NewBlogRepository(deps.Content),
		tracker:  deps.Tracker,
		mailer:   deps.Mailer,
		github:   deps.GitHub,
	}

	manifest := assets.NewManifest(deps.Config.StaticDir, deps.Logger)

	r := gin.New()
	r.SetHTMLTemplate(parseTemplates(manifest, s.blog))

	r.Use(RequestID(deps.Logger))
	r.Use(gin.CustomRecovery(s.recover))
	r.Use(sessions.Sessions(sessionName, cookie.NewStore([]byte(deps.Config.SecretKey))))
	if deps.Visits != nil {
		r.Use(TrackVisitors(deps.Visits))
	}

	r.Static("/static", deps.Config.StaticDir)

	track := func(name string) gin.HandlerFunc { return TrackRoute(s.tracker, name) }

	r.GET("/", track("Viewed Homepage"), s.home)
	r.GET("/about", track("Viewed About Page"), s.about)
	r.GET("/services", track("Viewed Services Page"), s.servicesPage)
	r.GET("/offline.html", s.offline)

	projects := r.Group("/projects")
	projects.GET("/", track("Viewed Projects"), s.projectList)
	projects.GET("/:id", track("Viewed Project Detail"), s.projectDetail)

	blog := r.Group("/blog")
	blog.GET("/", track("Viewed Blog"), s.blogIndex)
	blog.GET("/search", track("Searched Blog"), s.blogSearch)
	blog.GET("/rss", s.rss)
	blog.GET("/category/:category", track("Viewed Blog Category"), s.blogCategory)
	blog.GET("/tag/:tag", track("Viewed Blog Tag"), s.blogTag)
	blog.GET("/:slug", track("Viewed Blog Post"), s.blogPost)

	r.GET("/contact", track("Viewed Contact Page"), s.contactPage)
	r.POST("/contact", s.contactSubmit)

	r.GET("/health", s.health)
	r.GET("/api/health", s.apiHealth)
	r.GET("/robots.txt", s.robots)
	r.GET("/sitemap.xml", s.sitemap)

	r.NoRoute(s.notFound)
	return r
}

// page merges data with the values every template expects.
func (s *server) page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["SiteName"] = content.SiteName
	data["Tagline"] = content.Tagline
	data["GoogleAnalyticsID"] = s.cfg.GoogleAnalyticsID
	data["Path"] = c.Request.URL.Path
	data["RequestID"] = c.GetString(requestIDKey)
	data["Flashes"] = s.flashes(c)
	data["Version"] = config.AppVersion
	return data
}

func (s *server) flashes(c *gin.Context) []string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		requestLogger(c).WithError(err).Warn("Failed to clear flash messages")
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (s *server) flash(c *gin.Context, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg)
	if err := session.Save(); err != nil {
		requestLogger(c).WithError(err).Warn("Failed to store flash message")
	}
}

func (s *server) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", s.page(c, "Page Not Found - "+content.SiteName, nil))
}

func (s *server) serverError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "500.html", s.page(c, "Server Error - "+content.SiteName, nil))
}

func (s *server) recover(c *gin.Context, recovered any) {
	requestLogger(c).WithField("panic", recovered).Error("Unhandled panic")
	s.serverError(c)
	c.Abort()
}

func (s *server) outboundTimeout() time.Duration {
	if s.cfg.OutboundTimeout > 0 {
		return s.cfg.OutboundTimeout
	}
	return 10 * time.Second
}

// baseURL is the configured public URL, or the one the request came in on.
func (s *server) baseURL(c *gin.Context) string {
	if s.cfg.BaseURL != "" {
		return strings.TrimRight(s.cfg.BaseURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
