package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/kussetech/internal/content"
)

func (s *server) home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", s.page(c, content.SiteName+" - "+content.Tagline, gin.H{
		"Projects":    s.projects.Featured(),
		"Services":    s.services.All(),
		"LatestPosts": s.blog.Latest(3),
		"AboutMe":     content.AboutMe,
	}))
}

func (s *server) about(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", s.page(c, "About - "+content.SiteName, gin.H{
		"AboutMe":   content.AboutMe,
		"AboutWork": content.AboutWork,
	}))
}

func (s *server) servicesPage(c *gin.Context) {
	c.HTML(http.StatusOK, "services.html", s.page(c, "Services - "+content.SiteName, gin.H{
		"Services": s.services.All(),
	}))
}

func (s *server) offline(c *gin.Context) {
	c.HTML(http.StatusOK, "offline.html", s.page(c, "Offline - "+content.SiteName, nil))
}
