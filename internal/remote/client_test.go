package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestClientGet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/users/u1/computers/c1.json", r.URL.Path)
		json.NewEncoder(w).Encode(ComputerDoc{ID: "c1", Name: "desk", Status: "online"})
	})

	var doc ComputerDoc
	found, err := client.Get(context.Background(), ComputerPath("u1", "c1"), &doc)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "desk", doc.Name)
}

func TestClientGetMissingDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The store answers 200 "null" for paths that do not exist.
		w.Write([]byte("null"))
	})

	var doc ComputerDoc
	found, err := client.Get(context.Background(), ComputerPath("u1", "missing"), &doc)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, doc.ID)
}

func TestClientPutAndPatch(t *testing.T) {
	var gotMethod, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte("{}"))
	})

	err := client.Put(context.Background(), "users/u1/computers/c1", ComputerDoc{ID: "c1", Status: "online"})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, gotMethod)
	require.Contains(t, gotBody, `"status":"online"`)

	err = client.Patch(context.Background(), "users/u1/computers/c1", map[string]any{"status": "paused"})
	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, gotMethod)
	require.Contains(t, gotBody, `"status":"paused"`)
}

func TestClientDeleteMissingIsNoError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.Delete(context.Background(), "users/u1/commands/cmd1")
	require.NoError(t, err)
}

func TestClientErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Get(context.Background(), "users/u1/computers/c1", nil)
	require.Error(t, err)

	err = client.Put(context.Background(), "users/u1/computers/c1", ComputerDoc{})
	require.Error(t, err)
}

func TestResolveIdentity(t *testing.T) {
	codes := map[string]AgentCodeDoc{
		"ABC123": {Active: true, UserID: "user-1"},
		"STALE1": {Active: false, UserID: "user-2"},
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		code := r.URL.Path[len("/agentCodes/") : len(r.URL.Path)-len(".json")]
		doc, ok := codes[code]
		if !ok {
			w.Write([]byte("null"))
			return
		}
		json.NewEncoder(w).Encode(doc)
	})

	userID, err := client.ResolveIdentity(context.Background(), "ABC123")
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)

	_, err = client.ResolveIdentity(context.Background(), "STALE1")
	require.ErrorIs(t, err, ErrCodeNotFound)

	_, err = client.ResolveIdentity(context.Background(), "NOPE")
	require.ErrorIs(t, err, ErrCodeNotFound)
}

func TestTimestampAndDateKey(t *testing.T) {
	at := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)
	require.Equal(t, "2025-03-09T14:30:00Z", Timestamp(at))
	require.Equal(t, "2025-03-09", DateKey(at))
}
