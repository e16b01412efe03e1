// Package notify turns domain events into notification records.
package notify

import (
	"fmt"
	"time"

	"taskshare/internal/models"
)

// Event describes something that happened and who should hear about it.
// An event without recipients is scoped to the group (or to Email) and yields
// a single notification.
type Event struct {
	Type       models.NotificationType
	GroupID    string
	SenderID   string
	Recipients []string
	Email      string
	InviteID   string
	TaskID     string
	Title      string
	Content    string
}

// Fanout builds one notification per recipient, skipping the sender.
// Order follows Recipients. Repeated recipients are not collapsed.
func Fanout(e Event, now time.Time, newID func() string) []models.Notification {
	if len(e.Recipients) == 0 {
		return []models.Notification{build(e, "", now, newID)}
	}

	out := make([]models.Notification, 0, len(e.Recipients))
	for _, r := range e.Recipients {
		if r == e.SenderID {
			continue
		}
		out = append(out, build(e, r, now, newID))
	}
	return out
}

func build(e Event, recipient string, now time.Time, newID func() string) models.Notification {
	return models.Notification{
		ID:        newID(),
		Type:      e.Type,
		Title:     e.Title,
		Content:   e.Content,
		CreatedAt: now,
		Read:      false,
		Data: &models.NotificationData{
			GroupID:     e.GroupID,
			SenderID:    e.SenderID,
			RecipientID: recipient,
			Email:       e.Email,
			InviteID:    e.InviteID,
			TaskID:      e.TaskID,
		},
	}
}

// InviteSent is addressed by email; whoever owns it when reading sees it.
func InviteSent(inv models.Invite, groupName, senderName string) Event {
	return Event{
		Type:     models.NotificationInvite,
		GroupID:  inv.GroupID,
		SenderID: inv.SenderID,
		Email:    inv.Email,
		InviteID: inv.ID,
		Title:    "Group invite",
		Content:  fmt.Sprintf("%s invited you to join %s", senderName, groupName),
	}
}

// InviteAnswered tells the group that responderID accepted or declined.
func InviteAnswered(inv models.Invite, groupName, responderID, responderName string, accepted bool) Event {
	e := Event{
		Type:     models.NotificationMessage,
		GroupID:  inv.GroupID,
		SenderID: responderID,
		InviteID: inv.ID,
	}
	if accepted {
		e.Title = "Invite accepted"
		e.Content = fmt.Sprintf("%s joined %s", responderName, groupName)
	} else {
		e.Title = "Invite declined"
		e.Content = fmt.Sprintf("%s declined the invite to %s", responderName, groupName)
	}
	return e
}

// TaskAssigned notifies each recipient about task.
func TaskAssigned(task models.Task, groupName, senderID string, recipients []string) Event {
	return Event{
		Type:       models.NotificationMessage,
		GroupID:    task.GroupID,
		SenderID:   senderID,
		Recipients: recipients,
		TaskID:     task.ID,
		Title:      "New task assigned",
		Content:    fmt.Sprintf("You were assigned to %q in %s", task.Title, groupName),
	}
}

// Added returns the ids present in next but not in prev, in next's order.
func Added(prev, next []string) []string {
	seen := make(map[string]struct{}, len(prev))
	for _, id := range prev {
		seen[id] = struct{}{}
	}
	var out []string
	for _, id := range next {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
