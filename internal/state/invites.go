package state

import (
	"context"
	"log/slog"

	"taskshare/internal/models"
	"taskshare/internal/notify"
	"taskshare/internal/policy"
	"taskshare/internal/storage"
)

// InviteToGroup sends a pending invite to a registered email. Only admins
// may invite; members and emails with a pending invite are refused.
func (m *Manager) InviteToGroup(ctx context.Context, groupID, email string) (models.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = normalizeEmail(email)
	attrs := []any{slog.String("group", groupID), slog.String("email", email)}

	i := m.groupIndex(groupID)
	if i < 0 {
		return models.Invite{}, m.refuse(ctx, "invite", ErrGroupNotFound, attrs...)
	}
	g := m.groups[i]
	if !policy.CanInvite(g, m.currentUser.ID) {
		return models.Invite{}, m.refuse(ctx, "invite", ErrNotAdmin, attrs...)
	}
	target, ok := m.authUserByEmail(email)
	if !ok {
		return models.Invite{}, m.refuse(ctx, "invite", ErrUserNotFound, attrs...)
	}
	if policy.IsMember(g, target.ID) || m.hasMemberWithEmail(g, email) {
		return models.Invite{}, m.refuse(ctx, "invite", ErrAlreadyMember, attrs...)
	}
	for _, inv := range m.invites {
		if inv.GroupID == groupID && inv.Email == email && inv.Status == models.InvitePending {
			return models.Invite{}, m.refuse(ctx, "invite", ErrInvitePending, attrs...)
		}
	}

	now := m.now()
	invite := models.Invite{
		ID:       m.newID(),
		GroupID:  groupID,
		Email:    email,
		SentAt:   now,
		Status:   models.InvitePending,
		SenderID: m.currentUser.ID,
	}
	snap := m.snapshot()
	m.invites = append(m.invites, invite)
	event := notify.InviteSent(invite, g.Name, m.currentUser.Name)
	m.notifications = append(m.notifications, notify.Fanout(event, now, m.newID)...)

	if err := m.commit(ctx, snap, storage.KeyInvites, storage.KeyNotifications); err != nil {
		return models.Invite{}, err
	}
	m.success(ctx, "Invite sent to " + email)
	return invite, nil
}

func (m *Manager) hasMemberWithEmail(g models.Group, email string) bool {
	for _, member := range g.Members {
		if u, ok := m.userByID(member.UserID); ok && u.Email != "" && normalizeEmail(u.Email) == email {
			return true
		}
	}
	return false
}

// RespondToInvite accepts or rejects a pending invite on behalf of the
// current user. An invite can be answered once.
func (m *Manager) RespondToInvite(ctx context.Context, inviteID string, accept bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	attrs := []any{slog.String("invite", inviteID)}
	idx := -1
	for i, inv := range m.invites {
		if inv.ID == inviteID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m.refuse(ctx, "respond to invite", ErrInviteNotFound, attrs...)
	}
	inv := m.invites[idx]
	if inv.Status != models.InvitePending {
		return m.refuse(ctx, "respond to invite", ErrInviteResolved, attrs...)
	}
	gi := m.groupIndex(inv.GroupID)
	if gi < 0 {
		return m.refuse(ctx, "respond to invite", ErrGroupNotFound, attrs...)
	}

	snap := m.snapshot()
	now := m.now()
	keys := []string{storage.KeyInvites, storage.KeyNotifications}
	if accept {
		m.invites[idx].Status = models.InviteAccepted
		if !policy.IsMember(m.groups[gi], m.currentUser.ID) {
			m.groups[gi].Members = append(m.groups[gi].Members, models.GroupMember{
				UserID:   m.currentUser.ID,
				Role:     models.RoleMember,
				JoinedAt: now,
			})
			keys = append(keys, storage.KeyGroups)
		}
	} else {
		m.invites[idx].Status = models.InviteRejected
	}

	event := notify.InviteAnswered(inv, m.groups[gi].Name, m.currentUser.ID, m.currentUser.Name, accept)
	m.notifications = append(m.notifications, notify.Fanout(event, now, m.newID)...)

	if err := m.commit(ctx, snap, keys...); err != nil {
		return err
	}
	if accept {
		m.success(ctx, "You joined " + m.groups[gi].Name)
	} else {
		m.success(ctx, "Invite declined")
	}
	return nil
}

// GetUserInvites lists pending invites addressed to the current user's
// registered email.
func (m *Manager) GetUserInvites() []models.Invite {
	m.mu.Lock()
	defer m.mu.Unlock()

	auth, ok := m.authUserByID(m.currentUser.ID)
	if !ok {
		return nil
	}
	var out []models.Invite
	for _, inv := range m.invites {
		if inv.Status == models.InvitePending && inv.Email == auth.Email {
			out = append(out, inv)
		}
	}
	return out
}
