package state

import (
	"context"
	"sort"

	"taskshare/internal/models"
	"taskshare/internal/storage"
)

// GetUnreadNotificationsCount counts unread notifications not sent by the
// current user.
func (m *Manager) GetUnreadNotificationsCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, notif := range m.notifications {
		if !notif.Read && !m.sentByCurrent(notif) {
			n++
		}
	}
	return n
}

func (m *Manager) sentByCurrent(n models.Notification) bool {
	sender := n.SenderID()
	return sender != "" && sender == m.currentUser.ID
}

// MarkNotificationAsRead flags one notification as read. Unknown ids and
// already read notifications are ignored.
func (m *Manager) MarkNotificationAsRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID != id {
			continue
		}
		if m.notifications[i].Read {
			return nil
		}
		snap := m.snapshot()
		m.notifications[i].Read = true
		return m.commit(ctx, snap, storage.KeyNotifications)
	}
	return nil
}

// MarkAllNotificationsAsRead flags every notification as read.
func (m *Manager) MarkAllNotificationsAsRead(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.snapshot()
	changed := false
	for i := range m.notifications {
		if !m.notifications[i].Read {
			m.notifications[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return m.commit(ctx, snap, storage.KeyNotifications)
}

// RecentNotifications returns up to limit notifications not sent by the
// current user, newest first. A limit <= 0 returns all of them.
func (m *Manager) RecentNotifications(limit int) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.notifications {
		if !m.sentByCurrent(n) {
			out = append(out, n.Clone())
		}
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Inbox returns the notifications addressed to the current user, newest
// first: not sent by them, and matching their id or registered email when
// the notification names a recipient.
func (m *Manager) Inbox() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := ""
	if auth, ok := m.authUserByID(m.currentUser.ID); ok {
		email = auth.Email
	}
	var out []models.Notification
	for _, n := range m.notifications {
		if m.sentByCurrent(n) {
			continue
		}
		if d := n.Data; d != nil {
			if d.RecipientID != "" && d.RecipientID != m.currentUser.ID {
				continue
			}
			if d.Email != "" && d.Email != email {
				continue
			}
		}
		out = append(out, n.Clone())
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(ns []models.Notification) {
	sort.SliceStable(ns, func(i, j int) bool {
		return ns[i].CreatedAt.After(ns[j].CreatedAt)
	})
}
