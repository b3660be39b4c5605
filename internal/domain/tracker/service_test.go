package tracker_test

import (
	"context"
	"testing"

	"github.com/deskwatch/agent/internal/domain/tracker"
	"github.com/deskwatch/agent/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeWindowSource struct {
	process string
	title   string
	user    string
	err     error
}

func (f *fakeWindowSource) Foreground() (string, string, error) {
	return f.process, f.title, f.err
}

func (f *fakeWindowSource) CurrentUser() (string, error) {
	return f.user, nil
}

type fakeSessionControl struct {
	restarts []string
}

func (f *fakeSessionControl) Restart(ctx context.Context, username string) (int64, error) {
	f.restarts = append(f.restarts, username)
	return int64(len(f.restarts) + 1), nil
}

func newTrackerService(apps *mocks.ApplicationRepository, edits *mocks.FileEditRepository, sessions tracker.SessionControl, source tracker.WindowSource) *tracker.Service {
	return tracker.NewService(apps, edits, nil, sessions, source, "comp-1", true, nil)
}

func TestTrackerService_OpensAndClosesIntervals(t *testing.T) {
	ctx := context.Background()
	apps := &mocks.ApplicationRepository{}
	edits := &mocks.FileEditRepository{}
	source := &fakeWindowSource{process: "chrome.exe", title: "News", user: "alice"}

	apps.On("Start", ctx, mock.MatchedBy(func(log *tracker.ApplicationLog) bool {
		return log.ApplicationName == "chrome.exe" && log.Username == "alice"
	})).Return(int64(1), nil).Once()

	svc := newTrackerService(apps, edits, &fakeSessionControl{}, source)
	require.NoError(t, svc.Poll(ctx))
	require.Equal(t, "Browsing: News", svc.CurrentActivity())

	// Same sample again: no new interval.
	require.NoError(t, svc.Poll(ctx))

	// A change closes the old interval and opens a new one.
	source.process = "slack.exe"
	source.title = "general"
	apps.On("End", ctx, int64(1), mock.Anything, mock.Anything).Return(nil).Once()
	apps.On("Start", ctx, mock.MatchedBy(func(log *tracker.ApplicationLog) bool {
		return log.ApplicationName == "slack.exe"
	})).Return(int64(2), nil).Once()

	require.NoError(t, svc.Poll(ctx))
	require.Equal(t, "slack.exe: general", svc.CurrentActivity())
	apps.AssertExpectations(t)
}

func TestTrackerService_TitleChangeOpensNewInterval(t *testing.T) {
	ctx := context.Background()
	apps := &mocks.ApplicationRepository{}
	source := &fakeWindowSource{process: "chrome.exe", title: "News", user: "alice"}

	apps.On("Start", ctx, mock.MatchedBy(func(log *tracker.ApplicationLog) bool {
		return log.WindowTitle == "News"
	})).Return(int64(1), nil).Once()

	svc := newTrackerService(apps, &mocks.FileEditRepository{}, &fakeSessionControl{}, source)
	require.NoError(t, svc.Poll(ctx))

	// A new title on the same process starts a fresh interval.
	source.title = "Mail"
	apps.On("End", ctx, int64(1), mock.Anything, mock.Anything).Return(nil).Once()
	apps.On("Start", ctx, mock.MatchedBy(func(log *tracker.ApplicationLog) bool {
		return log.WindowTitle == "Mail"
	})).Return(int64(2), nil).Once()
	require.NoError(t, svc.Poll(ctx))

	require.Equal(t, "Browsing: Mail", svc.CurrentActivity())
	apps.AssertExpectations(t)
}

func TestTrackerService_UserChangeRestartsSession(t *testing.T) {
	ctx := context.Background()
	apps := &mocks.ApplicationRepository{}
	source := &fakeWindowSource{process: "chrome.exe", title: "News", user: "alice"}
	sessions := &fakeSessionControl{}

	apps.On("Start", ctx, mock.Anything).Return(int64(1), nil)
	apps.On("End", ctx, int64(1), mock.Anything, mock.Anything).Return(nil).Once()

	svc := newTrackerService(apps, &mocks.FileEditRepository{}, sessions, source)
	require.NoError(t, svc.Poll(ctx))
	require.Empty(t, sessions.restarts)

	source.user = "bob"
	require.NoError(t, svc.Poll(ctx))
	require.Equal(t, []string{"bob"}, sessions.restarts)
}

func TestTrackerService_FileEditLoggedOnce(t *testing.T) {
	ctx := context.Background()
	apps := &mocks.ApplicationRepository{}
	edits := &mocks.FileEditRepository{}
	source := &fakeWindowSource{process: "winword.exe", title: "report.docx - Word", user: "alice"}

	apps.On("Start", ctx, mock.Anything).Return(int64(1), nil)
	edits.On("Log", ctx, mock.MatchedBy(func(edit *tracker.FileEdit) bool {
		return edit.FileName == "report.docx" && edit.Application == "winword.exe"
	})).Return(int64(1), nil).Once()

	svc := newTrackerService(apps, edits, &fakeSessionControl{}, source)
	require.NoError(t, svc.Poll(ctx))
	require.NoError(t, svc.Poll(ctx))
	require.NoError(t, svc.Poll(ctx))

	edits.AssertExpectations(t)
}

func TestTrackerService_StopClosesInterval(t *testing.T) {
	ctx := context.Background()
	apps := &mocks.ApplicationRepository{}
	source := &fakeWindowSource{process: "chrome.exe", title: "News", user: "alice"}

	apps.On("Start", ctx, mock.Anything).Return(int64(1), nil).Once()
	apps.On("End", ctx, int64(1), mock.Anything, mock.Anything).Return(nil).Once()

	svc := newTrackerService(apps, &mocks.FileEditRepository{}, &fakeSessionControl{}, source)
	require.NoError(t, svc.Poll(ctx))

	svc.Stop(ctx)
	require.Empty(t, svc.CurrentActivity())
	apps.AssertExpectations(t)
}
