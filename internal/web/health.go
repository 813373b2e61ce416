package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/kussetech/internal/config"
)

const serviceName = "kusse-tech-studio"

func (s *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": s.cfg.StartupTime.UTC().Format(time.RFC3339),
		"version":   config.AppVersion,
	})
}

func (s *server) apiHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   config.AppVersion,
	})
}
