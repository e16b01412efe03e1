package state

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Level classifies a Notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a short user-facing message produced by a command.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// NoticeSink collects the notices of the commands run with its context.
type NoticeSink struct {
	mu      sync.Mutex
	notices []Notice
}

type sinkKey struct{}

// WithNoticeSink returns a context whose commands report to the returned
// sink instead of the manager's shared buffer. Concurrent callers each get
// their own notices this way.
func WithNoticeSink(ctx context.Context) (context.Context, *NoticeSink) {
	sink := &NoticeSink{}
	return context.WithValue(ctx, sinkKey{}, sink), sink
}

// Take returns and clears the collected notices.
func (s *NoticeSink) Take() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

func (s *NoticeSink) add(n Notice) {
	s.mu.Lock()
	s.notices = append(s.notices, n)
	s.mu.Unlock()
}

// TakeNotices returns and clears the notices buffered since the last call
// by commands whose context carried no sink.
func (m *Manager) TakeNotices() []Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.notices
	m.notices = nil
	return out
}

func (m *Manager) notice(ctx context.Context, n Notice) {
	if sink, ok := ctx.Value(sinkKey{}).(*NoticeSink); ok {
		sink.add(n)
		return
	}
	m.notices = append(m.notices, n)
}

func (m *Manager) success(ctx context.Context, msg string) {
	m.notice(ctx, Notice{Level: LevelSuccess, Message: msg})
	m.logger.Debug(msg, slog.String("user", m.currentUser.ID))
}

// refuse records err as an error notice and returns it.
func (m *Manager) refuse(ctx context.Context, op string, err error, attrs ...any) error {
	m.notice(ctx, Notice{Level: LevelError, Message: err.Error()})
	args := append([]any{slog.String("op", op), slog.String("user", m.currentUser.ID), slog.String("reason", err.Error())}, attrs...)
	m.logger.Info("operation refused", args...)
	return err
}

// IsRefusal reports whether err is one of the manager's refusal errors
// rather than a storage failure.
func IsRefusal(err error) bool {
	for _, target := range []error{
		ErrNotAdmin, ErrGroupNotFound, ErrUserNotFound, ErrMemberNotFound,
		ErrAlreadyMember, ErrInvitePending, ErrInviteNotFound, ErrInviteResolved,
		ErrLastAdmin, ErrTaskNotFound, ErrInvalidRole, ErrInvalidStatus, ErrInvalidPriority,
		ErrPasswordTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
