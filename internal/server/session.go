package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72,password_bytes"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userRequest struct {
	Name string `json:"name" binding:"required"`
}

type profileRequest struct {
	Name   string `json:"name" binding:"required"`
	Avatar string `json:"avatar"`
}

var (
	errEmailTaken         = errors.New("email is already registered")
	errInvalidCredentials = errors.New("incorrect email or password")
)

// handleGetSession reports who is signed in.
func (s *Server) handleGetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user":            s.state.CurrentUser(),
		"isAuthenticated": s.state.IsAuthenticated(),
	})
}

// handleRegister creates an account and signs it in.
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	ok, err := s.state.RegisterUser(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		s.respondError(c, http.StatusConflict, errEmailTaken)
		return
	}
	s.respondSuccess(c, http.StatusCreated, gin.H{"user": s.state.CurrentUser(), "isAuthenticated": true})
}

// handleLogin checks credentials.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	ok, err := s.state.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		s.respondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"user": s.state.CurrentUser(), "isAuthenticated": true})
}

// handleLogout drops back to an anonymous user.
func (s *Server) handleLogout(c *gin.Context) {
	if err := s.state.LogoutUser(c.Request.Context()); err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"user": s.state.CurrentUser(), "isAuthenticated": false})
}

// handleCreateUser creates an unauthenticated profile and switches to it.
func (s *Server) handleCreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := s.state.CreateUser(c.Request.Context(), req.Name)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	s.respondSuccess(c, http.StatusCreated, gin.H{"user": user})
}

// handleGetUser returns a public profile.
func (s *Server) handleGetUser(c *gin.Context) {
	user, ok := s.state.GetUserByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// handleUpdateProfile renames the current user.
func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := s.state.UpdateProfile(c.Request.Context(), req.Name, req.Avatar)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"user": user})
}
