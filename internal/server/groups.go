package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskshare/internal/models"
)

type groupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

type inviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type respondRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// handleListGroups returns every group, or only the caller's with ?mine=true.
func (s *Server) handleListGroups(c *gin.Context) {
	var groups []models.Group
	if c.Query("mine") == "true" {
		groups = s.state.GroupsForCurrentUser()
	} else {
		groups = s.state.Groups()
	}
	if groups == nil {
		groups = []models.Group{}
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// handleCreateGroup creates a group owned by the current user.
func (s *Server) handleCreateGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	group, err := s.state.CreateGroup(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusCreated, gin.H{"group": group})
}

// handleGetGroup returns a group together with the caller's admin flag.
func (s *Server) handleGetGroup(c *gin.Context) {
	id := c.Param("id")
	group, ok := s.state.GetGroupByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group, "isAdmin": s.state.IsGroupAdmin(id)})
}

// handleJoinGroup adds the current user to a group.
func (s *Server) handleJoinGroup(c *gin.Context) {
	if err := s.state.JoinGroup(c.Request.Context(), c.Param("id")); err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"status": "joined"})
}

// handleLeaveGroup removes the current user from a group.
func (s *Server) handleLeaveGroup(c *gin.Context) {
	if err := s.state.LeaveGroup(c.Request.Context(), c.Param("id")); err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"status": "left"})
}

// handleListMembers returns the group's members with their roles.
func (s *Server) handleListMembers(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.state.GetGroupByID(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	members := s.state.GetGroupMembers(id)
	if members == nil {
		members = []models.MemberView{}
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// handleChangeRole promotes or demotes a member.
func (s *Server) handleChangeRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	err := s.state.ChangeMemberRole(c.Request.Context(), c.Param("id"), c.Param("userId"), models.Role(req.Role))
	if err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"members": s.state.GetGroupMembers(c.Param("id"))})
}

// handleRemoveMember removes another member from the group.
func (s *Server) handleRemoveMember(c *gin.Context) {
	if err := s.state.RemoveMemberFromGroup(c.Request.Context(), c.Param("id"), c.Param("userId")); err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"status": "removed"})
}

// handleInvite sends an invite to a registered email.
func (s *Server) handleInvite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	invite, err := s.state.InviteToGroup(c.Request.Context(), c.Param("id"), req.Email)
	if err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusCreated, gin.H{"invite": invite})
}

// handleListInvites returns the current user's pending invites.
func (s *Server) handleListInvites(c *gin.Context) {
	invites := s.state.GetUserInvites()
	if invites == nil {
		invites = []models.Invite{}
	}
	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

// handleRespondInvite accepts or declines an invite.
func (s *Server) handleRespondInvite(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.state.RespondToInvite(c.Request.Context(), c.Param("id"), *req.Accept); err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"accepted": *req.Accept})
}
