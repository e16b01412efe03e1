package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"taskshare/internal/state"
)

// Server exposes the state manager as a JSON API for the web client.
type Server struct {
	engine    *gin.Engine
	state     *state.Manager
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(st *state.Manager, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerValidations(v)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz"))

	srv := &Server{
		engine:    router,
		state:     st,
		logger:    logger,
		staticDir: staticDir,
	}
	router.Use(collectNotices)

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		session := api.Group("/session")
		{
			session.GET("", s.handleGetSession)
			session.POST("/register", s.handleRegister)
			session.POST("/login", s.handleLogin)
			session.POST("/logout", s.handleLogout)
		}

		api.POST("/users", s.handleCreateUser)
		api.GET("/users/:id", s.handleGetUser)
		api.PUT("/profile", s.handleUpdateProfile)

		groups := api.Group("/groups")
		{
			groups.GET("", s.handleListGroups)
			groups.POST("", s.handleCreateGroup)
			groups.GET(":id", s.handleGetGroup)
			groups.POST(":id/join", s.handleJoinGroup)
			groups.POST(":id/leave", s.handleLeaveGroup)
			groups.GET(":id/members", s.handleListMembers)
			groups.PUT(":id/members/:userId", s.handleChangeRole)
			groups.DELETE(":id/members/:userId", s.handleRemoveMember)
			groups.POST(":id/invites", s.handleInvite)
			groups.GET(":id/tasks", s.handleListTasks)
			groups.POST(":id/tasks", s.handleCreateTask)
		}

		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)

		api.GET("/invites", s.handleListInvites)
		api.POST("/invites/:id/respond", s.handleRespondInvite)

		notifications := api.Group("/notifications")
		{
			notifications.GET("", s.handleListNotifications)
			notifications.GET("/unread-count", s.handleUnreadCount)
			notifications.PATCH("", s.handleMarkAllRead)
			notifications.PATCH(":id", s.handleMarkRead)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor maps manager errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, state.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, state.ErrGroupNotFound),
		errors.Is(err, state.ErrInviteNotFound),
		errors.Is(err, state.ErrTaskNotFound),
		errors.Is(err, state.ErrMemberNotFound),
		errors.Is(err, state.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, state.ErrAlreadyMember),
		errors.Is(err, state.ErrInvitePending),
		errors.Is(err, state.ErrInviteResolved),
		errors.Is(err, state.ErrLastAdmin):
		return http.StatusConflict
	case errors.Is(err, state.ErrInvalidRole),
		errors.Is(err, state.ErrInvalidStatus),
		errors.Is(err, state.ErrInvalidPriority):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

const noticeSinkKey = "noticeSink"

// collectNotices gives each request its own notice sink so concurrent
// requests never see each other's notices.
func collectNotices(c *gin.Context) {
	ctx, sink := state.WithNoticeSink(c.Request.Context())
	c.Request = c.Request.WithContext(ctx)
	c.Set(noticeSinkKey, sink)
	c.Next()
}

func takeNotices(c *gin.Context) []state.Notice {
	if v, ok := c.Get(noticeSinkKey); ok {
		sink := v.(*state.NoticeSink)
		if notices := sink.Take(); notices != nil {
			return notices
		}
	}
	return []state.Notice{}
}

// respondStateError answers a failed manager command.
func (s *Server) respondStateError(c *gin.Context, err error) {
	s.respondError(c, statusFor(err), err)
}

// respondError logs the error and returns a JSON payload with pending notices.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	} else {
		s.logger.Debug("request rejected", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error(), "notices": takeNotices(c)})
}

// respondSuccess attaches the notices produced by the command to payload.
func (s *Server) respondSuccess(c *gin.Context, status int, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["notices"] = takeNotices(c)
	c.JSON(status, payload)
}
