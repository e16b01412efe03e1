package notify_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskshare/internal/models"
	"taskshare/internal/notify"
)

func idGen() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func TestFanout_SkipsSenderAndKeepsOrder(t *testing.T) {
	task := models.Task{ID: "t1", Title: "Dishes", GroupID: "g1"}
	e := notify.TaskAssigned(task, "Home", "z", []string{"y", "z", "x", "y"})

	got := notify.Fanout(e, now, idGen())

	require.Len(t, got, 3)
	var recipients []string
	for _, n := range got {
		recipients = append(recipients, n.Data.RecipientID)
		assert.Equal(t, "z", n.Data.SenderID)
		assert.Equal(t, "g1", n.Data.GroupID)
		assert.Equal(t, "t1", n.Data.TaskID)
		assert.Equal(t, models.NotificationMessage, n.Type)
		assert.False(t, n.Read)
		assert.Equal(t, now, n.CreatedAt)
	}
	assert.Equal(t, []string{"y", "x", "y"}, recipients)
	assert.Equal(t, []string{"n1", "n2", "n3"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestFanout_OnlySender(t *testing.T) {
	e := notify.TaskAssigned(models.Task{ID: "t1"}, "Home", "z", []string{"z"})
	assert.Empty(t, notify.Fanout(e, now, idGen()))
}

func TestFanout_Broadcast(t *testing.T) {
	inv := models.Invite{ID: "i1", GroupID: "g1", Email: "bob@x.com", SenderID: "ana"}

	sent := notify.Fanout(notify.InviteSent(inv, "Home", "Ana"), now, idGen())
	require.Len(t, sent, 1)
	assert.Equal(t, models.NotificationInvite, sent[0].Type)
	assert.Equal(t, "bob@x.com", sent[0].Data.Email)
	assert.Empty(t, sent[0].Data.RecipientID)
	assert.Equal(t, "Ana invited you to join Home", sent[0].Content)

	accepted := notify.Fanout(notify.InviteAnswered(inv, "Home", "bob", "Bob", true), now, idGen())
	require.Len(t, accepted, 1)
	assert.Equal(t, "Invite accepted", accepted[0].Title)
	assert.Equal(t, "bob", accepted[0].Data.SenderID)

	declined := notify.Fanout(notify.InviteAnswered(inv, "Home", "bob", "Bob", false), now, idGen())
	require.Len(t, declined, 1)
	assert.Equal(t, "Invite declined", declined[0].Title)
	assert.Equal(t, "Bob declined the invite to Home", declined[0].Content)
}

func TestAdded(t *testing.T) {
	tests := []struct {
		name string
		prev []string
		next []string
		want []string
	}{
		{name: "nothing_new", prev: []string{"x", "y"}, next: []string{"x"}, want: nil},
		{name: "one_new", prev: []string{"x"}, next: []string{"x", "w"}, want: []string{"w"}},
		{name: "from_empty", prev: nil, next: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "repeated_in_next", prev: nil, next: []string{"a", "a"}, want: []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notify.Added(tt.prev, tt.next))
		})
	}
}
