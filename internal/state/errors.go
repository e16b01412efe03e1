package state

import "errors"

// Refusals. The manager leaves state untouched when it returns one of these,
// and the message doubles as the user-facing notice.
var (
	ErrNotAdmin        = errors.New("only group admins can do that")
	ErrGroupNotFound   = errors.New("group not found")
	ErrUserNotFound    = errors.New("no registered user with that email")
	ErrMemberNotFound  = errors.New("member not found")
	ErrAlreadyMember   = errors.New("user is already a member of this group")
	ErrInvitePending   = errors.New("an invite for this email is already pending")
	ErrInviteNotFound  = errors.New("invite not found")
	ErrInviteResolved  = errors.New("invite was already answered")
	ErrLastAdmin       = errors.New("a group must keep at least one admin")
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)
