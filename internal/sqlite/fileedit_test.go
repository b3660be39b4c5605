package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/deskwatch/agent/internal/domain/tracker"
	"github.com/deskwatch/agent/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestFileEditRepository_LogAndSync(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewFileEditRepository(db)

	id, err := repo.Log(ctx, &tracker.FileEdit{
		ComputerID:  "comp-1",
		Username:    "alice",
		FileName:    "report.docx",
		FilePath:    `C:\Users\alice\Documents`,
		Application: "winword.exe",
		EditTime:    time.Now(),
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	edits, err := repo.Unsynced(ctx, 10)
	require.NoError(t, err)
	require.Len(t, edits, 1)
	require.Equal(t, "report.docx", edits[0].FileName)
	require.Equal(t, "winword.exe", edits[0].Application)

	require.NoError(t, repo.MarkSynced(ctx, []int64{id}))

	edits, err = repo.Unsynced(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, edits)
}

func TestFileEditRepository_RejectsEmpty(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFileEditRepository(db)

	_, err := repo.Log(context.Background(), &tracker.FileEdit{ComputerID: "comp-1"})
	require.Equal(t, repository.ErrInvalidInput, err)
}

func TestErrorLogRepository_Log(t *testing.T) {
	db := NewTestDB(t)
	repo := NewErrorLogRepository(db)

	require.NoError(t, repo.Log(context.Background(), "SyncError", "connection refused"))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM error_logs`).Scan(&count))
	require.Equal(t, 1, count)
}
