package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"taskshare/internal/models"
	"taskshare/internal/state"
)

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,task_priority"`
	DueDate     *time.Time `json:"dueDate"`
	AssignedTo  []string   `json:"assignedTo"`
	Tags        []string   `json:"tags"`
}

type updateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status" binding:"omitempty,task_status"`
	Priority     *string    `json:"priority" binding:"omitempty,task_priority"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
	AssignedTo   *[]string  `json:"assignedTo"`
	Tags         *[]string  `json:"tags"`
}

// immutableTaskFields may never appear in an update payload.
var immutableTaskFields = []string{"id", "createdAt", "createdBy", "groupId"}

// handleListTasks fetches tasks for a group, optionally one status column.
func (s *Server) handleListTasks(c *gin.Context) {
	groupID := c.Param("id")

	var tasks []models.Task
	if status := c.Query("status"); status != "" {
		if _, ok := models.ValidTaskStatuses[models.TaskStatus(status)]; !ok {
			s.respondError(c, http.StatusBadRequest, state.ErrInvalidStatus)
			return
		}
		tasks = s.state.GetTasksByStatus(groupID, models.TaskStatus(status))
	} else {
		tasks = s.state.GetTasksForGroup(groupID)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// handleCreateTask adds a task to a group.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.state.CreateTask(c.Request.Context(), state.NewTask{
		Title:       req.Title,
		GroupID:     c.Param("id"),
		Description: req.Description,
		Priority:    models.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
	})
	if err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleGetTask returns a single task.
func (s *Server) handleGetTask(c *gin.Context) {
	task, ok := s.state.GetTaskByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// handleUpdateTask applies a partial update. Payloads touching identity
// fields are rejected outright.
func (s *Server) handleUpdateTask(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	for _, name := range immutableTaskFields {
		if _, ok := fields[name]; ok {
			s.respondError(c, http.StatusBadRequest, fmt.Errorf("field %q cannot be changed", name))
			return
		}
	}

	var req updateTaskRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	upd := state.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		AssignedTo:   req.AssignedTo,
		Tags:         req.Tags,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		upd.Status = &status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		upd.Priority = &priority
	}

	task, err := s.state.UpdateTask(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.state.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.respondStateError(c, err)
		return
	}
	s.respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
