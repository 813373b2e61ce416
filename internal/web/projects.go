package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/kussetech/internal/content"
	"github.com/Zachkp/kussetech/internal/integrations/github"
)

func (s *server) projectList(c *gin.Context) {
	category := c.Query("category")

	var projects []content.Project
	if category == "" {
		projects = s.projects.All()
	} else {
		projects = s.projects.ByCategory(category)
	}

	c.HTML(http.StatusOK, "projects.html", s.page(c, "Projects - "+content.SiteName, gin.H{
		"Projects":   projects,
		"Categories": s.projects.Categories(),
		"Category":   category,
	}))
}

func (s *server) projectDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		s.notFound(c)
		return
	}
	project, ok := s.projects.ByID(id)
	if !ok {
		s.notFound(c)
		return
	}

	c.HTML(http.StatusOK, "project_detail.html", s.page(c, project.Title+" - "+content.SiteName, gin.H{
		"Project": project,
		"Repo":    s.repoStats(c, project),
	}))
}

// repoStats returns nil whenever stats are unavailable; the page renders
// without them.
func (s *server) repoStats(c *gin.Context, project content.Project) *github.Stats {
	if s.github == nil || project.GitHubURL == "" {
		return nil
	}
	owner, repo, ok := github.ParseRepoURL(project.GitHubURL)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.outboundTimeout())
	defer cancel()
	stats, err := s.github.RepositoryStats(ctx, owner, repo)
	if err != nil {
		requestLogger(c).WithError(err).WithField("repo", owner+"/"+repo).Warn("GitHub stats unavailable")
		return nil
	}
	return stats
}
