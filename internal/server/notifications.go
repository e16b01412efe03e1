package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskshare/internal/models"
)

const defaultRecentLimit = 5

// handleListNotifications returns the caller's inbox, or with ?view=recent
// the latest notifications not sent by the caller.
func (s *Server) handleListNotifications(c *gin.Context) {
	var notifications []models.Notification
	if c.Query("view") == "recent" {
		limit := defaultRecentLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}
		notifications = s.state.RecentNotifications(limit)
	} else {
		notifications = s.state.Inbox()
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// handleUnreadCount powers the notification badge.
func (s *Server) handleUnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unread": s.state.GetUnreadNotificationsCount()})
}

// handleMarkRead flags a single notification as read.
func (s *Server) handleMarkRead(c *gin.Context) {
	if err := s.state.MarkNotificationAsRead(c.Request.Context(), c.Param("id")); err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"unread": s.state.GetUnreadNotificationsCount()})
}

// handleMarkAllRead flags every notification as read.
func (s *Server) handleMarkAllRead(c *gin.Context) {
	if err := s.state.MarkAllNotificationsAsRead(c.Request.Context()); err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"unread": 0})
}
