// Package state owns every entity of the application and keeps the
// key-value store in sync with it.
//
// A Manager is the single writer: commands run one at a time under its lock,
// mutate the in-memory collections and then overwrite the snapshot of each
// collection they touched. Queries read the in-memory copy only.
package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskshare/internal/models"
	"taskshare/internal/storage"
)

// DefaultUserName is the placeholder name of the anonymous default user.
const DefaultUserName = "User"

// Manager is the domain state manager.
type Manager struct {
	mu     sync.Mutex
	store  storage.Store
	logger *slog.Logger

	now      func() time.Time
	newID    func() string
	hashCost int

	currentUser     models.User
	users           []models.User
	authUsers       []models.AuthUser
	isAuthenticated bool
	groups          []models.Group
	tasks           []models.Task
	notifications   []models.Notification
	invites         []models.Invite

	notices []Notice
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator replaces the identifier source.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithHashCost sets the bcrypt cost used for new credentials.
func WithHashCost(cost int) Option {
	return func(m *Manager) { m.hashCost = cost }
}

// New rehydrates a manager from store, defaulting every missing collection,
// and writes the resulting snapshot back.
func New(ctx context.Context, store storage.Store, logger *slog.Logger, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("nil store")
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		store:    store,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.hydrate(ctx); err != nil {
		return nil, err
	}
	if err := m.persist(ctx, storage.AllKeys...); err != nil {
		return nil, err
	}

	m.logger.Info("state loaded",
		slog.Int("users", len(m.users)),
		slog.Int("groups", len(m.groups)),
		slog.Int("tasks", len(m.tasks)),
		slog.Int("invites", len(m.invites)),
		slog.Int("notifications", len(m.notifications)),
	)
	return m, nil
}

func (m *Manager) hydrate(ctx context.Context) error {
	ok, err := storage.Load(ctx, m.store, storage.KeyCurrentUser, &m.currentUser)
	if err != nil {
		return err
	}
	if !ok {
		m.currentUser = m.anonymousUser()
	}

	ok, err = storage.Load(ctx, m.store, storage.KeyUsers, &m.users)
	if err != nil {
		return err
	}
	if !ok {
		m.users = []models.User{m.currentUser}
	}

	loaders := []struct {
		key string
		dst any
	}{
		{storage.KeyAuthUsers, &m.authUsers},
		{storage.KeyIsAuthenticated, &m.isAuthenticated},
		{storage.KeyGroups, &m.groups},
		{storage.KeyTasks, &m.tasks},
		{storage.KeyNotifications, &m.notifications},
		{storage.KeyInvites, &m.invites},
	}
	for _, l := range loaders {
		if _, err := storage.Load(ctx, m.store, l.key, l.dst); err != nil {
			return err
		}
	}

	if m.users == nil {
		m.users = []models.User{}
	}
	if m.authUsers == nil {
		m.authUsers = []models.AuthUser{}
	}
	if m.groups == nil {
		m.groups = []models.Group{}
	}
	if m.tasks == nil {
		m.tasks = []models.Task{}
	}
	if m.notifications == nil {
		m.notifications = []models.Notification{}
	}
	if m.invites == nil {
		m.invites = []models.Invite{}
	}
	return nil
}

// persist overwrites the snapshot of each named collection.
func (m *Manager) persist(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		var value any
		switch key {
		case storage.KeyCurrentUser:
			value = m.currentUser
		case storage.KeyUsers:
			value = m.users
		case storage.KeyAuthUsers:
			value = m.authUsers
		case storage.KeyIsAuthenticated:
			value = m.isAuthenticated
		case storage.KeyGroups:
			value = m.groups
		case storage.KeyTasks:
			value = m.tasks
		case storage.KeyNotifications:
			value = m.notifications
		case storage.KeyInvites:
			value = m.invites
		default:
			return fmt.Errorf("unknown state key %q", key)
		}
		if err := storage.Save(ctx, m.store, key, value); err != nil {
			m.logger.Error("persist failed", slog.String("key", key), slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}

// snapshot is a deep copy of every collection a command may touch.
type snapshot struct {
	currentUser     models.User
	users           []models.User
	authUsers       []models.AuthUser
	isAuthenticated bool
	groups          []models.Group
	tasks           []models.Task
	notifications   []models.Notification
	invites         []models.Invite
}

func (m *Manager) snapshot() snapshot {
	s := snapshot{
		currentUser:     m.currentUser,
		users:           append([]models.User{}, m.users...),
		authUsers:       append([]models.AuthUser{}, m.authUsers...),
		isAuthenticated: m.isAuthenticated,
		groups:          make([]models.Group, len(m.groups)),
		tasks:           make([]models.Task, len(m.tasks)),
		notifications:   make([]models.Notification, len(m.notifications)),
		invites:         append([]models.Invite{}, m.invites...),
	}
	for i, g := range m.groups {
		s.groups[i] = g.Clone()
	}
	for i, t := range m.tasks {
		s.tasks[i] = t.Clone()
	}
	for i, n := range m.notifications {
		s.notifications[i] = n.Clone()
	}
	return s
}

func (m *Manager) restore(s snapshot) {
	m.currentUser = s.currentUser
	m.users = s.users
	m.authUsers = s.authUsers
	m.isAuthenticated = s.isAuthenticated
	m.groups = s.groups
	m.tasks = s.tasks
	m.notifications = s.notifications
	m.invites = s.invites
}

// commit persists keys. On failure the collections are rolled back to
// before and the keys are rewritten from it, best effort.
func (m *Manager) commit(ctx context.Context, before snapshot, keys ...string) error {
	err := m.persist(ctx, keys...)
	if err == nil {
		return nil
	}
	m.restore(before)
	if rerr := m.persist(ctx, keys...); rerr != nil {
		m.logger.Warn("rollback not persisted", slog.String("error", rerr.Error()))
	}
	return err
}

func (m *Manager) anonymousUser() models.User {
	return models.User{ID: m.newID(), Name: DefaultUserName}
}

// CurrentUser returns the active user.
func (m *Manager) CurrentUser() models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentUser
}

// IsAuthenticated reports whether the active user logged in or registered.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isAuthenticated
}

// Users returns a copy of every known user.
func (m *Manager) Users() []models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User{}, m.users...)
}

// Groups returns a copy of every group.
func (m *Manager) Groups() []models.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Group, len(m.groups))
	for i, g := range m.groups {
		out[i] = g.Clone()
	}
	return out
}

// Tasks returns a copy of every task.
func (m *Manager) Tasks() []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Task, len(m.tasks))
	for i, t := range m.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Notifications returns a copy of every notification.
func (m *Manager) Notifications() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Notification, len(m.notifications))
	for i, n := range m.notifications {
		out[i] = n.Clone()
	}
	return out
}

// Invites returns a copy of every invite.
func (m *Manager) Invites() []models.Invite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Invite{}, m.invites...)
}

// GetUserByID looks a user up by id.
func (m *Manager) GetUserByID(id string) (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userByID(id)
}

func (m *Manager) userByID(id string) (models.User, bool) {
	for _, u := range m.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (m *Manager) groupIndex(id string) int {
	for i, g := range m.groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) taskIndex(id string) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) groupName(id string) string {
	if i := m.groupIndex(id); i >= 0 {
		return m.groups[i].Name
	}
	return "a group"
}
