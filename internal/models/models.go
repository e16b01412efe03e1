package models

import "time"

// Role is the membership level a user holds inside a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// TaskStatus is the board column a task sits in.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// ValidTaskStatuses enumerates the statuses supported by the group board.
var ValidTaskStatuses = map[TaskStatus]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusCompleted:  {},
}

// TaskPriority ranks a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ValidTaskPriorities enumerates the supported priorities.
var ValidTaskPriorities = map[TaskPriority]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
}

// InviteStatus tracks the lifecycle of an invite. Only pending invites can change.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteRejected InviteStatus = "rejected"
)

// NotificationType distinguishes invite notifications from plain messages.
type NotificationType string

const (
	NotificationInvite  NotificationType = "invite"
	NotificationMessage NotificationType = "message"
)

// User is the public profile of a person.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// AuthUser is the credential-bearing identity record. It shares its ID with
// the matching User and is never handed to the API as-is.
type AuthUser struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// GroupMember associates a user with a group.
type GroupMember struct {
	UserID   string    `json:"userId"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Group is a named set of members sharing a task list. Members keep join order.
type Group struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Members     []GroupMember `json:"members"`
	CreatedAt   time.Time     `json:"createdAt"`
	CreatedBy   string        `json:"createdBy"`
}

// Clone returns a copy that does not share the members slice.
func (g Group) Clone() Group {
	g.Members = append([]GroupMember(nil), g.Members...)
	return g
}

// Task is a unit of work scoped to one group.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	CreatedBy   string       `json:"createdBy"`
	AssignedTo  []string     `json:"assignedTo,omitempty"`
	GroupID     string       `json:"groupId"`
	Tags        []string     `json:"tags,omitempty"`
}

// Clone returns a copy that does not share slices or the due date.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	if t.AssignedTo != nil {
		t.AssignedTo = append([]string{}, t.AssignedTo...)
	}
	if t.Tags != nil {
		t.Tags = append([]string{}, t.Tags...)
	}
	return t
}

// Invite is an offer of group membership addressed by email.
type Invite struct {
	ID       string       `json:"id"`
	GroupID  string       `json:"groupId"`
	Email    string       `json:"email"`
	SentAt   time.Time    `json:"sentAt"`
	Status   InviteStatus `json:"status"`
	SenderID string       `json:"senderId"`
}

// NotificationData links a notification to the entities it talks about.
// RecipientID and Email address the notification; both empty means it is
// visible to anyone reading the group feed.
type NotificationData struct {
	GroupID     string `json:"groupId,omitempty"`
	SenderID    string `json:"senderId,omitempty"`
	RecipientID string `json:"recipientId,omitempty"`
	Email       string `json:"email,omitempty"`
	InviteID    string `json:"inviteId,omitempty"`
	TaskID      string `json:"taskId,omitempty"`
}

// Notification is a feed entry describing an invite or assignment event.
type Notification struct {
	ID        string            `json:"id"`
	Type      NotificationType  `json:"type"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"createdAt"`
	Read      bool              `json:"read"`
	Data      *NotificationData `json:"data,omitempty"`
}

// Clone returns a copy that does not share Data.
func (n Notification) Clone() Notification {
	if n.Data != nil {
		data := *n.Data
		n.Data = &data
	}
	return n
}

// SenderID returns the sender recorded in Data, or "" when absent.
func (n Notification) SenderID() string {
	if n.Data == nil {
		return ""
	}
	return n.Data.SenderID
}

// MemberView is a group member resolved to its user profile.
type MemberView struct {
	User
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}
