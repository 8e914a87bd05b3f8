// Package testserver runs the full HTTP stack over a throwaway SQLite file.
package testserver

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ko2fey/test-task-mini-crm/internal/store"
	"github.com/ko2fey/test-task-mini-crm/internal/wire"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	App    *wire.App
}

// New starts a server with metrics enabled and migrations applied.
func New(t *testing.T) *TestServer {
	t.Helper()

	db, err := store.Open(string(store.SQLite), filepath.Join(t.TempDir(), "leadrouter.db"))
	require.NoError(t, err)
	_, err = db.Migrate(context.Background())
	require.NoError(t, err)

	app := wire.New(db, wire.Options{MaxReserveAttempts: 1, MetricsEnabled: true, Version: "test"})
	server := httptest.NewServer(app.HTTPHandler())

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{Server: server, App: app}
}

// URL joins path onto the server's base URL.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
