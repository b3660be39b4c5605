package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/deskwatch/agent/internal/domain/session"
	"github.com/deskwatch/agent/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	calls int
	err   error
}

func (f *fakeSyncer) FlushFinal(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestSessionService_StartEnd(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SessionRepository{}
	repo.On("Start", ctx, "comp-1", "alice", mock.Anything).Return(int64(1), nil)
	repo.On("End", mock.Anything, int64(1), mock.Anything).Return(nil)

	syncer := &fakeSyncer{}
	svc := session.NewService(repo, nil, "comp-1", nil)
	svc.SetSyncer(syncer)

	id, err := svc.Start(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	snap := svc.Snapshot()
	require.Equal(t, session.StateActive, snap.State)
	require.Equal(t, "alice", snap.Username)

	require.NoError(t, svc.End(ctx))
	require.Equal(t, 1, syncer.calls)
	require.Equal(t, session.StateEnded, svc.Snapshot().State)

	// An ended lifecycle accepts a fresh start.
	repo.On("Start", ctx, "comp-1", "bob", mock.Anything).Return(int64(2), nil)
	id, err = svc.Start(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, int64(2), id)
	repo.AssertExpectations(t)
}

func TestSessionService_StartTwice(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SessionRepository{}
	repo.On("Start", ctx, "comp-1", "alice", mock.Anything).Return(int64(1), nil).Once()

	svc := session.NewService(repo, nil, "comp-1", nil)

	_, err := svc.Start(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.Start(ctx, "alice")
	require.ErrorIs(t, err, session.ErrAlreadyStarted)
	repo.AssertExpectations(t)
}

func TestSessionService_PauseResume(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SessionRepository{}
	repo.On("Start", ctx, "comp-1", "alice", mock.Anything).Return(int64(1), nil)

	svc := session.NewService(repo, nil, "comp-1", nil)

	require.ErrorIs(t, svc.Pause(ctx), session.ErrNotActive)

	_, err := svc.Start(ctx, "alice")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Resume(ctx), session.ErrNotPaused)

	require.NoError(t, svc.Pause(ctx))
	require.True(t, svc.Paused())
	require.ErrorIs(t, svc.Pause(ctx), session.ErrNotActive)

	require.NoError(t, svc.Resume(ctx))
	require.False(t, svc.Paused())
}

func TestSessionService_EndWithoutSession(t *testing.T) {
	svc := session.NewService(&mocks.SessionRepository{}, nil, "comp-1", nil)
	require.ErrorIs(t, svc.End(context.Background()), session.ErrNoSession)
}

func TestSessionService_EndWinsOverLaterPause(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SessionRepository{}
	repo.On("Start", ctx, "comp-1", "alice", mock.Anything).Return(int64(1), nil)
	repo.On("End", mock.Anything, int64(1), mock.Anything).Return(nil)

	svc := session.NewService(repo, nil, "comp-1", nil)
	_, err := svc.Start(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.End(ctx))

	// A pause arriving after the end fails its state guard instead of
	// reviving the session.
	require.ErrorIs(t, svc.Pause(ctx), session.ErrNotActive)
	require.Equal(t, session.StateEnded, svc.Snapshot().State)
}

func TestSessionService_EndSurvivesFlushFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SessionRepository{}
	repo.On("Start", ctx, "comp-1", "alice", mock.Anything).Return(int64(1), nil)
	repo.On("End", mock.Anything, int64(1), mock.Anything).Return(nil)

	errs := &mocks.ErrorLogRepository{}
	errs.On("Log", mock.Anything, "SyncError", mock.Anything).Return(nil)

	syncer := &fakeSyncer{err: errors.New("remote unreachable")}
	svc := session.NewService(repo, errs, "comp-1", nil)
	svc.SetSyncer(syncer)

	_, err := svc.Start(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.End(ctx))
	require.Equal(t, 1, syncer.calls)
	errs.AssertExpectations(t)
}

func TestSessionService_RestartForUserChange(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SessionRepository{}
	repo.On("Start", ctx, "comp-1", "alice", mock.Anything).Return(int64(1), nil).Once()
	repo.On("End", ctx, int64(1), mock.Anything).Return(nil).Once()
	repo.On("Start", ctx, "comp-1", "bob", mock.Anything).Return(int64(2), nil).Once()

	syncer := &fakeSyncer{}
	svc := session.NewService(repo, nil, "comp-1", nil)
	svc.SetSyncer(syncer)

	_, err := svc.Start(ctx, "alice")
	require.NoError(t, err)

	id, err := svc.Restart(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, int64(2), id)

	// Restart does not trigger the final flush; the regular sync loop
	// archives the ended session.
	require.Zero(t, syncer.calls)

	snap := svc.Snapshot()
	require.Equal(t, session.StateActive, snap.State)
	require.Equal(t, "bob", snap.Username)
	repo.AssertExpectations(t)
}
