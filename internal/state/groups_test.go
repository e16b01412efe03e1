package state_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskshare/internal/models"
	"taskshare/internal/state"
)

func TestCreateGroup_CreatorIsSoleAdmin(t *testing.T) {
	m := newManager(t, nil)
	ana := register(t, m, "Ana", "ana@x.com")

	g, err := m.CreateGroup(context.Background(), "Home", "chores")
	require.NoError(t, err)

	require.Len(t, g.Members, 1)
	assert.Equal(t, ana.ID, g.Members[0].UserID)
	assert.Equal(t, models.RoleAdmin, g.Members[0].Role)
	assert.Equal(t, ana.ID, g.CreatedBy)
	assert.True(t, m.IsGroupAdmin(g.ID))

	stored, ok := m.GetGroupByID(g.ID)
	require.True(t, ok)
	assert.Equal(t, g, stored)
}

func TestJoinGroup_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	register(t, m, "Ana", "ana@x.com")
	g, err := m.CreateGroup(ctx, "Home", "")
	require.NoError(t, err)
	bob := register(t, m, "Bob", "bob@x.com")

	require.NoError(t, m.JoinGroup(ctx, g.ID))
	require.NoError(t, m.JoinGroup(ctx, g.ID))

	got, _ := m.GetGroupByID(g.ID)
	count := 0
	for _, member := range got.Members {
		if member.UserID == bob.ID {
			count++
			assert.Equal(t, models.RoleMember, member.Role)
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, got.Members, 2)
	assert.False(t, m.IsGroupAdmin(g.ID))
	assert.Len(t, m.GroupsForCurrentUser(), 1)
}

func TestJoinGroup_UnknownGroup(t *testing.T) {
	m := newManager(t, nil)
	assert.ErrorIs(t, m.JoinGroup(context.Background(), "missing"), state.ErrGroupNotFound)
	assert.False(t, m.IsGroupAdmin("missing"))
}

func TestLeaveGroup(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	register(t, m, "Ana", "ana@x.com")
	g, err := m.CreateGroup(ctx, "Home", "")
	require.NoError(t, err)
	bob := register(t, m, "Bob", "bob@x.com")
	require.NoError(t, m.JoinGroup(ctx, g.ID))

	t.Run("member_leaves", func(t *testing.T) {
		require.NoError(t, m.LeaveGroup(ctx, g.ID))
		got, _ := m.GetGroupByID(g.ID)
		require.Len(t, got.Members, 1)
		assert.NotEqual(t, bob.ID, got.Members[0].UserID)
		assert.Empty(t, m.GroupsForCurrentUser())
	})

	t.Run("non_member_leave_is_noop", func(t *testing.T) {
		before, _ := m.GetGroupByID(g.ID)
		require.NoError(t, m.LeaveGroup(ctx, g.ID))
		after, _ := m.GetGroupByID(g.ID)
		assert.Equal(t, before, after)
	})

	t.Run("sole_admin_blocked_while_others_remain", func(t *testing.T) {
		require.NoError(t, m.JoinGroup(ctx, g.ID))
		login(t, m, "ana@x.com")
		before, _ := m.GetGroupByID(g.ID)

		err := m.LeaveGroup(ctx, g.ID)
		assert.ErrorIs(t, err, state.ErrLastAdmin)
		after, _ := m.GetGroupByID(g.ID)
		assert.Equal(t, before, after)
	})

	t.Run("sole_admin_leaves_when_alone", func(t *testing.T) {
		login(t, m, "bob@x.com")
		require.NoError(t, m.LeaveGroup(ctx, g.ID))
		login(t, m, "ana@x.com")
		require.NoError(t, m.LeaveGroup(ctx, g.ID))
		got, _ := m.GetGroupByID(g.ID)
		assert.Empty(t, got.Members)
	})
}

func TestRemoveMemberFromGroup(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	ana := register(t, m, "Ana", "ana@x.com")
	g, err := m.CreateGroup(ctx, "Home", "")
	require.NoError(t, err)
	bob := register(t, m, "Bob", "bob@x.com")
	require.NoError(t, m.JoinGroup(ctx, g.ID))
	login(t, m, "ana@x.com")

	before, _ := m.GetGroupByID(g.ID)
	assert.ErrorIs(t, m.RemoveMemberFromGroup(ctx, g.ID, ana.ID), state.ErrLastAdmin)
	after, _ := m.GetGroupByID(g.ID)
	assert.Equal(t, before, after)

	assert.ErrorIs(t, m.RemoveMemberFromGroup(ctx, g.ID, "nobody"), state.ErrMemberNotFound)
	assert.ErrorIs(t, m.RemoveMemberFromGroup(ctx, "missing", bob.ID), state.ErrGroupNotFound)

	require.NoError(t, m.RemoveMemberFromGroup(ctx, g.ID, bob.ID))
	after, _ = m.GetGroupByID(g.ID)
	require.Len(t, after.Members, 1)
	assert.Equal(t, ana.ID, after.Members[0].UserID)
}

func TestRemoveMemberFromGroup_AdminWithCoAdmin(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	ana := register(t, m, "Ana", "ana@x.com")
	g, err := m.CreateGroup(ctx, "Home", "")
	require.NoError(t, err)
	bob := register(t, m, "Bob", "bob@x.com")
	require.NoError(t, m.JoinGroup(ctx, g.ID))
	login(t, m, "ana@x.com")
	require.NoError(t, m.ChangeMemberRole(ctx, g.ID, bob.ID, models.RoleAdmin))

	login(t, m, "bob@x.com")
	require.NoError(t, m.RemoveMemberFromGroup(ctx, g.ID, ana.ID))

	got, _ := m.GetGroupByID(g.ID)
	require.Len(t, got.Members, 1)
	assert.Equal(t, bob.ID, got.Members[0].UserID)
}

func TestChangeMemberRole(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	ana := register(t, m, "Ana", "ana@x.com")
	g, err := m.CreateGroup(ctx, "Home", "")
	require.NoError(t, err)
	bob := register(t, m, "Bob", "bob@x.com")
	require.NoError(t, m.JoinGroup(ctx, g.ID))
	login(t, m, "ana@x.com")

	assert.ErrorIs(t, m.ChangeMemberRole(ctx, g.ID, ana.ID, models.RoleMember), state.ErrLastAdmin)
	assert.ErrorIs(t, m.ChangeMemberRole(ctx, g.ID, bob.ID, models.Role("owner")), state.ErrInvalidRole)
	assert.ErrorIs(t, m.ChangeMemberRole(ctx, g.ID, "nobody", models.RoleAdmin), state.ErrMemberNotFound)

	require.NoError(t, m.ChangeMemberRole(ctx, g.ID, bob.ID, models.RoleAdmin))
	members := m.GetGroupMembers(g.ID)
	require.Len(t, members, 2)
	assert.Equal(t, models.RoleAdmin, members[1].Role)

	// with a second admin in place, Ana can step down
	require.NoError(t, m.ChangeMemberRole(ctx, g.ID, ana.ID, models.RoleMember))
	assert.False(t, m.IsGroupAdmin(g.ID))
}

func TestAdminOnlyOperations_RefuseNonAdmins(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, nil)
	ana := register(t, m, "Ana", "ana@x.com")
	g, err := m.CreateGroup(ctx, "Home", "")
	require.NoError(t, err)
	register(t, m, "Carol", "carol@x.com")
	bob := register(t, m, "Bob", "bob@x.com")
	require.NoError(t, m.JoinGroup(ctx, g.ID))

	groups, invites, notifications := m.Groups(), m.Invites(), m.Notifications()

	assert.ErrorIs(t, m.ChangeMemberRole(ctx, g.ID, bob.ID, models.RoleAdmin), state.ErrNotAdmin)
	assert.ErrorIs(t, m.ChangeMemberRole(ctx, g.ID, ana.ID, models.RoleMember), state.ErrNotAdmin)
	_, err = m.InviteToGroup(ctx, g.ID, "carol@x.com")
	assert.ErrorIs(t, err, state.ErrNotAdmin)
	assert.ErrorIs(t, m.RemoveMemberFromGroup(ctx, g.ID, ana.ID), state.ErrNotAdmin)

	// an outsider is refused the same way
	require.NoError(t, m.LeaveGroup(ctx, g.ID))
	groups = m.Groups()
	assert.ErrorIs(t, m.RemoveMemberFromGroup(ctx, g.ID, ana.ID), state.ErrNotAdmin)

	assert.Equal(t, groups, m.Groups())
	assert.Equal(t, invites, m.Invites())
	assert.Equal(t, notifications, m.Notifications())
}
