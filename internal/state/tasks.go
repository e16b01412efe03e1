package state

import (
	"context"
	"log/slog"
	"time"

	"taskshare/internal/models"
	"taskshare/internal/notify"
	"taskshare/internal/storage"
)

// NewTask holds the inputs of CreateTask. Priority defaults to medium.
type NewTask struct {
	Title       string
	GroupID     string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssignedTo  []string
	Tags        []string
}

// TaskUpdate is a partial update. Nil fields are left alone. A task's id,
// creation time, creator and group cannot be changed.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	AssignedTo   *[]string
	Tags         *[]string
}

// CreateTask adds a pending task and notifies every assignee but the creator.
func (m *Manager) CreateTask(ctx context.Context, in NewTask) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	attrs := []any{slog.String("group", in.GroupID)}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if _, ok := models.ValidTaskPriorities[in.Priority]; !ok {
		return models.Task{}, m.refuse(ctx, "create task", ErrInvalidPriority, attrs...)
	}
	gi := m.groupIndex(in.GroupID)
	if gi < 0 {
		return models.Task{}, m.refuse(ctx, "create task", ErrGroupNotFound, attrs...)
	}

	now := m.now()
	task := models.Task{
		ID:          m.newID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      models.StatusPending,
		Priority:    in.Priority,
		CreatedAt:   now,
		CreatedBy:   m.currentUser.ID,
		GroupID:     in.GroupID,
	}
	if in.DueDate != nil {
		due := *in.DueDate
		task.DueDate = &due
	}
	if len(in.AssignedTo) > 0 {
		task.AssignedTo = append([]string{}, in.AssignedTo...)
	}
	if len(in.Tags) > 0 {
		task.Tags = append([]string{}, in.Tags...)
	}
	snap := m.snapshot()
	m.tasks = append(m.tasks, task)

	keys := []string{storage.KeyTasks}
	if len(task.AssignedTo) > 0 {
		event := notify.TaskAssigned(task, m.groups[gi].Name, m.currentUser.ID, task.AssignedTo)
		if n := notify.Fanout(event, now, m.newID); len(n) > 0 {
			m.notifications = append(m.notifications, n...)
			keys = append(keys, storage.KeyNotifications)
		}
	}

	if err := m.commit(ctx, snap, keys...); err != nil {
		return models.Task{}, err
	}
	m.success(ctx, "Task created")
	return task.Clone(), nil
}

// UpdateTask merges upd onto the task. Users newly added to the assignment
// are notified; users taken off it are not.
func (m *Manager) UpdateTask(ctx context.Context, taskID string, upd TaskUpdate) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	attrs := []any{slog.String("task", taskID)}
	i := m.taskIndex(taskID)
	if i < 0 {
		return models.Task{}, m.refuse(ctx, "update task", ErrTaskNotFound, attrs...)
	}
	if upd.Status != nil {
		if _, ok := models.ValidTaskStatuses[*upd.Status]; !ok {
			return models.Task{}, m.refuse(ctx, "update task", ErrInvalidStatus, attrs...)
		}
	}
	if upd.Priority != nil {
		if _, ok := models.ValidTaskPriorities[*upd.Priority]; !ok {
			return models.Task{}, m.refuse(ctx, "update task", ErrInvalidPriority, attrs...)
		}
	}

	snap := m.snapshot()
	prev := m.tasks[i].Clone()
	t := &m.tasks[i]
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if upd.ClearDueDate {
		t.DueDate = nil
	} else if upd.DueDate != nil {
		due := *upd.DueDate
		t.DueDate = &due
	}
	if upd.Tags != nil {
		t.Tags = append([]string{}, (*upd.Tags)...)
	}

	keys := []string{storage.KeyTasks}
	if upd.AssignedTo != nil {
		t.AssignedTo = append([]string{}, (*upd.AssignedTo)...)
		if added := notify.Added(prev.AssignedTo, t.AssignedTo); len(added) > 0 {
			event := notify.TaskAssigned(*t, m.groupName(t.GroupID), m.currentUser.ID, added)
			if n := notify.Fanout(event, m.now(), m.newID); len(n) > 0 {
				m.notifications = append(m.notifications, n...)
				keys = append(keys, storage.KeyNotifications)
			}
		}
	}

	if err := m.commit(ctx, snap, keys...); err != nil {
		return models.Task{}, err
	}
	m.success(ctx, "Task updated")
	return t.Clone(), nil
}

// DeleteTask removes a task. Notifications that mention it are kept.
func (m *Manager) DeleteTask(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.taskIndex(taskID)
	if i < 0 {
		return m.refuse(ctx, "delete task", ErrTaskNotFound, slog.String("task", taskID))
	}
	snap := m.snapshot()
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)

	if err := m.commit(ctx, snap, storage.KeyTasks); err != nil {
		return err
	}
	m.success(ctx, "Task deleted")
	return nil
}

// GetTaskByID looks a task up by id.
func (m *Manager) GetTaskByID(taskID string) (models.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.taskIndex(taskID)
	if i < 0 {
		return models.Task{}, false
	}
	return m.tasks[i].Clone(), true
}

// GetTasksForGroup lists a group's tasks in creation order.
func (m *Manager) GetTasksForGroup(groupID string) []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Task
	for _, t := range m.tasks {
		if t.GroupID == groupID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// GetTasksByStatus lists a group's tasks in one board column.
func (m *Manager) GetTasksByStatus(groupID string, status models.TaskStatus) []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Task
	for _, t := range m.tasks {
		if t.GroupID == groupID && t.Status == status {
			out = append(out, t.Clone())
		}
	}
	return out
}
