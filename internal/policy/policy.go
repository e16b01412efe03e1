// Package policy derives group roles and answers authorization questions.
//
// Authorization rules:
//   - Admins can invite, change member roles and remove members
//   - Members and non-members cannot do any of the above
//   - Joining, leaving and task CRUD are not gated
package policy

import "taskshare/internal/models"

// RoleOf returns the role userID holds in g. ok is false when the user is not a member.
func RoleOf(g models.Group, userID string) (models.Role, bool) {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// IsAdmin reports whether userID is an admin of g.
func IsAdmin(g models.Group, userID string) bool {
	role, ok := RoleOf(g, userID)
	return ok && role == models.RoleAdmin
}

// IsMember reports whether userID has any membership in g.
func IsMember(g models.Group, userID string) bool {
	_, ok := RoleOf(g, userID)
	return ok
}

// AdminCount counts admins in g.
func AdminCount(g models.Group) int {
	n := 0
	for _, m := range g.Members {
		if m.Role == models.RoleAdmin {
			n++
		}
	}
	return n
}

// IsSoleAdmin reports whether userID is the only admin of g.
func IsSoleAdmin(g models.Group, userID string) bool {
	return IsAdmin(g, userID) && AdminCount(g) == 1
}

// CanInvite reports whether actorID may send invites for g.
func CanInvite(g models.Group, actorID string) bool {
	return IsAdmin(g, actorID)
}

// CanChangeRole reports whether actorID may change roles in g.
func CanChangeRole(g models.Group, actorID string) bool {
	return IsAdmin(g, actorID)
}

// CanRemoveMember reports whether actorID may remove members from g.
func CanRemoveMember(g models.Group, actorID string) bool {
	return IsAdmin(g, actorID)
}
