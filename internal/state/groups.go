package state

import (
	"context"
	"log/slog"

	"taskshare/internal/models"
	"taskshare/internal/policy"
	"taskshare/internal/storage"
)

// CreateGroup creates a group with the current user as its only admin.
func (m *Manager) CreateGroup(ctx context.Context, name, description string) (models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	group := models.Group{
		ID:          m.newID(),
		Name:        name,
		Description: description,
		Members: []models.GroupMember{
			{UserID: m.currentUser.ID, Role: models.RoleAdmin, JoinedAt: now},
		},
		CreatedAt: now,
		CreatedBy: m.currentUser.ID,
	}
	snap := m.snapshot()
	m.groups = append(m.groups, group)

	if err := m.commit(ctx, snap, storage.KeyGroups); err != nil {
		return models.Group{}, err
	}
	m.success(ctx, "Group created")
	return group.Clone(), nil
}

// JoinGroup adds the current user as a member. Joining twice is a no-op.
func (m *Manager) JoinGroup(ctx context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.groupIndex(groupID)
	if i < 0 {
		return m.refuse(ctx, "join group", ErrGroupNotFound, slog.String("group", groupID))
	}
	if policy.IsMember(m.groups[i], m.currentUser.ID) {
		return nil
	}

	snap := m.snapshot()
	m.groups[i].Members = append(m.groups[i].Members, models.GroupMember{
		UserID:   m.currentUser.ID,
		Role:     models.RoleMember,
		JoinedAt: m.now(),
	})
	if err := m.commit(ctx, snap, storage.KeyGroups); err != nil {
		return err
	}
	m.success(ctx, "You joined the group")
	return nil
}

// LeaveGroup removes the current user from the group. The sole admin may
// only leave when nobody else remains.
func (m *Manager) LeaveGroup(ctx context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.groupIndex(groupID)
	if i < 0 {
		return m.refuse(ctx, "leave group", ErrGroupNotFound, slog.String("group", groupID))
	}
	g := m.groups[i]
	if !policy.IsMember(g, m.currentUser.ID) {
		return nil
	}
	if policy.IsSoleAdmin(g, m.currentUser.ID) && len(g.Members) > 1 {
		return m.refuse(ctx, "leave group", ErrLastAdmin, slog.String("group", groupID))
	}

	snap := m.snapshot()
	m.groups[i].Members = removeMember(g.Members, m.currentUser.ID)
	if err := m.commit(ctx, snap, storage.KeyGroups); err != nil {
		return err
	}
	m.success(ctx, "You left the group")
	return nil
}

// IsGroupAdmin reports whether the current user is an admin of the group.
func (m *Manager) IsGroupAdmin(groupID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isGroupAdmin(groupID)
}

func (m *Manager) isGroupAdmin(groupID string) bool {
	i := m.groupIndex(groupID)
	if i < 0 {
		return false
	}
	return policy.IsAdmin(m.groups[i], m.currentUser.ID)
}

// GetGroupByID looks a group up by id.
func (m *Manager) GetGroupByID(groupID string) (models.Group, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.groupIndex(groupID)
	if i < 0 {
		return models.Group{}, false
	}
	return m.groups[i].Clone(), true
}

// GroupsForCurrentUser lists the groups the current user belongs to.
func (m *Manager) GroupsForCurrentUser() []models.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Group
	for _, g := range m.groups {
		if policy.IsMember(g, m.currentUser.ID) {
			out = append(out, g.Clone())
		}
	}
	return out
}

// GetGroupMembers resolves members to user profiles in join order.
// Members whose user no longer resolves are skipped.
func (m *Manager) GetGroupMembers(groupID string) []models.MemberView {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.groupIndex(groupID)
	if i < 0 {
		return nil
	}
	var out []models.MemberView
	for _, member := range m.groups[i].Members {
		user, ok := m.userByID(member.UserID)
		if !ok {
			continue
		}
		out = append(out, models.MemberView{User: user, Role: member.Role, JoinedAt: member.JoinedAt})
	}
	return out
}

// ChangeMemberRole sets userID's role. Only admins may do it, and the last
// admin cannot be demoted.
func (m *Manager) ChangeMemberRole(ctx context.Context, groupID, userID string, role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	attrs := []any{slog.String("group", groupID), slog.String("target", userID)}
	if !role.Valid() {
		return m.refuse(ctx, "change role", ErrInvalidRole, attrs...)
	}
	i := m.groupIndex(groupID)
	if i < 0 {
		return m.refuse(ctx, "change role", ErrGroupNotFound, attrs...)
	}
	g := m.groups[i]
	if !policy.CanChangeRole(g, m.currentUser.ID) {
		return m.refuse(ctx, "change role", ErrNotAdmin, attrs...)
	}
	current, ok := policy.RoleOf(g, userID)
	if !ok {
		return m.refuse(ctx, "change role", ErrMemberNotFound, attrs...)
	}
	if current == role {
		return nil
	}
	if current == models.RoleAdmin && policy.AdminCount(g) == 1 {
		return m.refuse(ctx, "change role", ErrLastAdmin, attrs...)
	}

	snap := m.snapshot()
	for j := range m.groups[i].Members {
		if m.groups[i].Members[j].UserID == userID {
			m.groups[i].Members[j].Role = role
		}
	}
	if err := m.commit(ctx, snap, storage.KeyGroups); err != nil {
		return err
	}
	m.success(ctx, "Member role updated")
	return nil
}

// RemoveMemberFromGroup removes userID from the group. Only admins may do
// it, and the sole admin cannot be removed.
func (m *Manager) RemoveMemberFromGroup(ctx context.Context, groupID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	attrs := []any{slog.String("group", groupID), slog.String("target", userID)}
	i := m.groupIndex(groupID)
	if i < 0 {
		return m.refuse(ctx, "remove member", ErrGroupNotFound, attrs...)
	}
	g := m.groups[i]
	if !policy.CanRemoveMember(g, m.currentUser.ID) {
		return m.refuse(ctx, "remove member", ErrNotAdmin, attrs...)
	}
	if !policy.IsMember(g, userID) {
		return m.refuse(ctx, "remove member", ErrMemberNotFound, attrs...)
	}
	if policy.IsSoleAdmin(g, userID) {
		return m.refuse(ctx, "remove member", ErrLastAdmin, attrs...)
	}

	snap := m.snapshot()
	m.groups[i].Members = removeMember(g.Members, userID)
	if err := m.commit(ctx, snap, storage.KeyGroups); err != nil {
		return err
	}
	m.success(ctx, "Member removed")
	return nil
}

func removeMember(members []models.GroupMember, userID string) []models.GroupMember {
	out := make([]models.GroupMember, 0, len(members))
	for _, mb := range members {
		if mb.UserID != userID {
			out = append(out, mb)
		}
	}
	return out
}
