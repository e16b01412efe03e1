package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"taskshare/internal/models"
	"taskshare/internal/storage"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser adds a profile-only user and makes it current. It does not
// authenticate the session.
func (m *Manager) CreateUser(ctx context.Context, name string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	user := models.User{ID: m.newID(), Name: name}
	m.users = append(m.users, user)
	m.currentUser = user

	if err := m.commit(ctx, snap, storage.KeyUsers, storage.KeyCurrentUser); err != nil {
		return models.User{}, err
	}
	m.success(ctx, "User created")
	return user, nil
}

// RegisterUser creates credentials and a matching profile, then signs the new
// user in. It returns false when the email is already registered.
func (m *Manager) RegisterUser(ctx context.Context, name, email, password string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = normalizeEmail(email)
	if _, ok := m.authUserByEmail(email); ok {
		m.refuse(ctx, "register", errors.New("email is already registered"), slog.String("email", email))
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		m.refuse(ctx, "register", ErrPasswordTooLong, slog.String("email", email))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	snap := m.snapshot()
	user := models.User{ID: m.newID(), Name: name, Email: email}
	m.authUsers = append(m.authUsers, models.AuthUser{User: user, PasswordHash: string(hash)})
	m.users = append(m.users, user)
	m.currentUser = user
	m.isAuthenticated = true

	if err := m.commit(ctx, snap, storage.KeyAuthUsers, storage.KeyUsers, storage.KeyCurrentUser, storage.KeyIsAuthenticated); err != nil {
		return false, err
	}
	m.success(ctx, "Account created")
	m.logger.Info("user registered", slog.String("user", user.ID))
	return true, nil
}

// LoginUser verifies credentials and makes the matching user current.
// On failure it returns false and leaves state unchanged.
func (m *Manager) LoginUser(ctx context.Context, email, password string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = normalizeEmail(email)
	auth, ok := m.authUserByEmail(email)
	if !ok || bcrypt.CompareHashAndPassword([]byte(auth.PasswordHash), []byte(password)) != nil {
		m.refuse(ctx, "login", errors.New("incorrect email or password"), slog.String("email", email))
		return false, nil
	}

	user := auth.User
	if u, ok := m.userByID(auth.ID); ok {
		user = u
	}
	snap := m.snapshot()
	m.currentUser = user
	m.isAuthenticated = true

	if err := m.commit(ctx, snap, storage.KeyCurrentUser, storage.KeyIsAuthenticated); err != nil {
		return false, err
	}
	m.success(ctx, "Signed in")
	return true, nil
}

// LogoutUser swaps in a fresh anonymous user and clears authentication.
func (m *Manager) LogoutUser(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	anon := m.anonymousUser()
	m.users = append(m.users, anon)
	m.currentUser = anon
	m.isAuthenticated = false

	if err := m.commit(ctx, snap, storage.KeyUsers, storage.KeyCurrentUser, storage.KeyIsAuthenticated); err != nil {
		return err
	}
	m.success(ctx, "Signed out")
	return nil
}

// UpdateProfile renames the current user and sets its avatar. An empty
// avatar keeps the existing one.
func (m *Manager) UpdateProfile(ctx context.Context, name, avatar string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	apply := func(u *models.User) {
		u.Name = name
		if avatar != "" {
			u.Avatar = avatar
		}
	}

	snap := m.snapshot()
	apply(&m.currentUser)
	for i := range m.users {
		if m.users[i].ID == m.currentUser.ID {
			apply(&m.users[i])
		}
	}
	for i := range m.authUsers {
		if m.authUsers[i].ID == m.currentUser.ID {
			apply(&m.authUsers[i].User)
		}
	}

	if err := m.commit(ctx, snap, storage.KeyCurrentUser, storage.KeyUsers, storage.KeyAuthUsers); err != nil {
		return models.User{}, err
	}
	m.success(ctx, "Profile updated")
	return m.currentUser, nil
}

func (m *Manager) authUserByEmail(email string) (models.AuthUser, bool) {
	for _, a := range m.authUsers {
		if a.Email == email {
			return a, true
		}
	}
	return models.AuthUser{}, false
}

func (m *Manager) authUserByID(id string) (models.AuthUser, bool) {
	for _, a := range m.authUsers {
		if a.ID == id {
			return a, true
		}
	}
	return models.AuthUser{}, false
}
