package state_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskshare/internal/models"
	"taskshare/internal/state"
)

func notificationsFor(m *state.Manager, userID string) []models.Notification {
	var out []models.Notification
	for _, n := range m.Notifications() {
		if n.Data != nil && n.Data.RecipientID == userID {
			out = append(out, n)
		}
	}
	return out
}

func TestTaskAssignmentNotifications(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	x := register(t, m, "X", "x@x.com")
	y := register(t, m, "Y", "y@x.com")
	w := register(t, m, "W", "w@x.com")
	z := register(t, m, "Z", "z@x.com")
	g, err := m.CreateGroup(ctx, "Team", "")
	require.NoError(t, err)

	task, err := m.CreateTask(ctx, state.NewTask{
		Title:      "Ship it",
		GroupID:    g.ID,
		AssignedTo: []string{x.ID, y.ID, z.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, z.ID, task.CreatedBy)

	assert.Len(t, notificationsFor(m, x.ID), 1)
	assert.Len(t, notificationsFor(m, y.ID), 1)
	assert.Empty(t, notificationsFor(m, z.ID))
	assert.Len(t, m.Notifications(), 2)

	xNote := notificationsFor(m, x.ID)[0]
	assert.Equal(t, models.NotificationMessage, xNote.Type)
	assert.Equal(t, g.ID, xNote.Data.GroupID)
	assert.Equal(t, task.ID, xNote.Data.TaskID)
	assert.Contains(t, xNote.Content, "Ship it")

	onlyX := []string{x.ID}
	_, err = m.UpdateTask(ctx, task.ID, state.TaskUpdate{AssignedTo: &onlyX})
	require.NoError(t, err)
	assert.Len(t, m.Notifications(), 2)

	xAndW := []string{x.ID, w.ID}
	updated, err := m.UpdateTask(ctx, task.ID, state.TaskUpdate{AssignedTo: &xAndW})
	require.NoError(t, err)
	assert.Equal(t, xAndW, updated.AssignedTo)
	assert.Len(t, m.Notifications(), 3)
	assert.Len(t, notificationsFor(m, w.ID), 1)
	assert.Len(t, notificationsFor(m, x.ID), 1)

	// X sees the assignment in their inbox, Y does not see X's
	login(t, m, "x@x.com")
	inbox := m.Inbox()
	require.Len(t, inbox, 1)
	assert.Equal(t, x.ID, inbox[0].Data.RecipientID)
}

func TestCreateTask_Refusals(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	g, err := m.CreateGroup(ctx, "Team", "")
	require.NoError(t, err)

	_, err = m.CreateTask(ctx, state.NewTask{Title: "a", GroupID: "missing"})
	assert.ErrorIs(t, err, state.ErrGroupNotFound)
	_, err = m.CreateTask(ctx, state.NewTask{Title: "a", GroupID: g.ID, Priority: "urgent"})
	assert.ErrorIs(t, err, state.ErrInvalidPriority)
	assert.Empty(t, m.Tasks())
}

func TestUpdateTask_KeepsImmutableFields(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	g, err := m.CreateGroup(ctx, "Team", "")
	require.NoError(t, err)
	task, err := m.CreateTask(ctx, state.NewTask{Title: "Draft", GroupID: g.ID, Description: "first"})
	require.NoError(t, err)

	// a different user applying every mutable field
	_, err = m.CreateUser(ctx, "Someone else")
	require.NoError(t, err)
	title, desc := "Final", "second"
	status, priority := models.StatusCompleted, models.PriorityLow
	due := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	assigned, tags := []string{"u1"}, []string{"t"}
	updated, err := m.UpdateTask(ctx, task.ID, state.TaskUpdate{
		Title:       &title,
		Description: &desc,
		Status:      &status,
		Priority:    &priority,
		DueDate:     &due,
		AssignedTo:  &assigned,
		Tags:        &tags,
	})
	require.NoError(t, err)

	assert.Equal(t, task.ID, updated.ID)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
	assert.Equal(t, task.CreatedBy, updated.CreatedBy)
	assert.Equal(t, task.GroupID, updated.GroupID)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "second", updated.Description)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, models.PriorityLow, updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))
	assert.Equal(t, tags, updated.Tags)

	cleared, err := m.UpdateTask(ctx, task.ID, state.TaskUpdate{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)
	assert.Equal(t, "Final", cleared.Title)
}

func TestUpdateTask_Refusals(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	g, err := m.CreateGroup(ctx, "Team", "")
	require.NoError(t, err)
	task, err := m.CreateTask(ctx, state.NewTask{Title: "Draft", GroupID: g.ID})
	require.NoError(t, err)

	bad := models.TaskStatus("done")
	_, err = m.UpdateTask(ctx, task.ID, state.TaskUpdate{Status: &bad})
	assert.ErrorIs(t, err, state.ErrInvalidStatus)
	badPriority := models.TaskPriority("urgent")
	_, err = m.UpdateTask(ctx, task.ID, state.TaskUpdate{Priority: &badPriority})
	assert.ErrorIs(t, err, state.ErrInvalidPriority)
	_, err = m.UpdateTask(ctx, "missing", state.TaskUpdate{})
	assert.ErrorIs(t, err, state.ErrTaskNotFound)

	got, ok := m.GetTaskByID(task.ID)
	require.True(t, ok)
	assert.Equal(t, task, got)
}

func TestTaskQueriesAndDelete(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	home, err := m.CreateGroup(ctx, "Home", "")
	require.NoError(t, err)
	work, err := m.CreateGroup(ctx, "Work", "")
	require.NoError(t, err)

	a, err := m.CreateTask(ctx, state.NewTask{Title: "a", GroupID: home.ID})
	require.NoError(t, err)
	b, err := m.CreateTask(ctx, state.NewTask{Title: "b", GroupID: home.ID})
	require.NoError(t, err)
	_, err = m.CreateTask(ctx, state.NewTask{Title: "c", GroupID: work.ID})
	require.NoError(t, err)

	inProgress := models.StatusInProgress
	_, err = m.UpdateTask(ctx, b.ID, state.TaskUpdate{Status: &inProgress})
	require.NoError(t, err)

	assert.Len(t, m.GetTasksForGroup(home.ID), 2)
	assert.Len(t, m.GetTasksForGroup(work.ID), 1)
	assert.Empty(t, m.GetTasksForGroup("missing"))
	pending := m.GetTasksByStatus(home.ID, models.StatusPending)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)

	require.NoError(t, m.DeleteTask(ctx, a.ID))
	assert.ErrorIs(t, m.DeleteTask(ctx, a.ID), state.ErrTaskNotFound)
	_, ok := m.GetTaskByID(a.ID)
	assert.False(t, ok)
	assert.Len(t, m.GetTasksForGroup(home.ID), 1)
}
