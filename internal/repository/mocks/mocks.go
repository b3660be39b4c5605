package mocks

import (
	"context"
	"time"

	"github.com/deskwatch/agent/internal/domain/device"
	"github.com/deskwatch/agent/internal/domain/session"
	"github.com/deskwatch/agent/internal/domain/tracker"
	"github.com/deskwatch/agent/internal/repository"
	"github.com/stretchr/testify/mock"
)

// ComputerRepository is a mock for repository.ComputerRepository.
type ComputerRepository struct {
	mock.Mock
}

func (m *ComputerRepository) Register(ctx context.Context, name string) (*device.Computer, error) {
	args := m.Called(ctx, name)
	if comp, ok := args.Get(0).(*device.Computer); ok {
		return comp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ComputerRepository) Get(ctx context.Context) (*device.Computer, error) {
	args := m.Called(ctx)
	if comp, ok := args.Get(0).(*device.Computer); ok {
		return comp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ComputerRepository) MarkSynced(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ComputerRepository) IsSynced(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// SessionRepository is a mock for repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Start(ctx context.Context, computerID, username string, start time.Time) (int64, error) {
	args := m.Called(ctx, computerID, username, start)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SessionRepository) End(ctx context.Context, id int64, end time.Time) error {
	args := m.Called(ctx, id, end)
	return args.Error(0)
}

func (m *SessionRepository) CloseStale(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SessionRepository) Get(ctx context.Context, id int64) (*session.Session, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Active(ctx context.Context) ([]session.Session, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]session.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Unsynced(ctx context.Context, limit int) ([]session.Session, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]session.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) MarkSynced(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// ApplicationRepository is a mock for repository.ApplicationRepository.
type ApplicationRepository struct {
	mock.Mock
}

func (m *ApplicationRepository) Start(ctx context.Context, log *tracker.ApplicationLog) (int64, error) {
	args := m.Called(ctx, log)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ApplicationRepository) End(ctx context.Context, id int64, end time.Time, durationSeconds int64) error {
	args := m.Called(ctx, id, end, durationSeconds)
	return args.Error(0)
}

func (m *ApplicationRepository) Unsynced(ctx context.Context, limit int) ([]tracker.ApplicationLog, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]tracker.ApplicationLog); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ApplicationRepository) MarkSynced(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// FileEditRepository is a mock for repository.FileEditRepository.
type FileEditRepository struct {
	mock.Mock
}

func (m *FileEditRepository) Log(ctx context.Context, edit *tracker.FileEdit) (int64, error) {
	args := m.Called(ctx, edit)
	return args.Get(0).(int64), args.Error(1)
}

func (m *FileEditRepository) Unsynced(ctx context.Context, limit int) ([]tracker.FileEdit, error) {
	args := m.Called(ctx, limit)
	if list, ok := args.Get(0).([]tracker.FileEdit); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FileEditRepository) MarkSynced(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// ErrorLogRepository is a mock for repository.ErrorLogRepository.
type ErrorLogRepository struct {
	mock.Mock
}

func (m *ErrorLogRepository) Log(ctx context.Context, errorType, message string) error {
	args := m.Called(ctx, errorType, message)
	return args.Error(0)
}

// UserLinkRepository is a mock for repository.UserLinkRepository.
type UserLinkRepository struct {
	mock.Mock
}

func (m *UserLinkRepository) Get(ctx context.Context) (*device.UserLink, error) {
	args := m.Called(ctx)
	if link, ok := args.Get(0).(*device.UserLink); ok {
		return link, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserLinkRepository) Save(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserLinkRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// StatsRepository is a mock for repository.StatsRepository.
type StatsRepository struct {
	mock.Mock
}

func (m *StatsRepository) UnsyncedCounts(ctx context.Context) (repository.UnsyncedCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(repository.UnsyncedCounts), args.Error(1)
}

func (m *StatsRepository) PruneSynced(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
