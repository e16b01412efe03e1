package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// mountStatic serves the single-page client and falls back to index.html for
// client-side routes such as /groups/:id. Unknown /api paths always get JSON.
func (s *Server) mountStatic() {
	indexPath := s.resolveIndex()

	s.engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || indexPath == "" || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
			return
		}
		c.File(indexPath)
	})
	if indexPath == "" {
		return
	}

	s.engine.GET("/", func(c *gin.Context) {
		c.File(indexPath)
	})
	for _, dir := range []string{"assets", "images"} {
		path := filepath.Join(s.staticDir, dir)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			s.engine.StaticFS("/"+dir, gin.Dir(path, false))
		}
	}
	favicon := filepath.Join(s.staticDir, "favicon.ico")
	if _, err := os.Stat(favicon); err == nil {
		s.engine.StaticFile("/favicon.ico", favicon)
	}
}

// resolveIndex returns the client entry point, or "" in API-only mode.
func (s *Server) resolveIndex() string {
	if s.staticDir == "" {
		s.logger.Info("static directory not configured; API only mode")
		return ""
	}
	indexPath := filepath.Join(s.staticDir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		s.logger.Warn("client entry point missing; API only mode", slog.String("path", indexPath), slog.Any("error", err))
		return ""
	}
	return indexPath
}
