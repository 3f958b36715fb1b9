package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	"socialnet/internal/core"
	"socialnet/internal/utils/databaseutils"
)

// SQLite rendition of the Postgres migrations, so handler tests run the
// full stack without a database server.
const testSchema = `
CREATE TABLE accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash BLOB NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE profiles (
    account_id INTEGER PRIMARY KEY REFERENCES accounts (id) ON DELETE CASCADE
);

CREATE TABLE follows (
    follower_id INTEGER NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
    followee_id INTEGER NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
    PRIMARY KEY (follower_id, followee_id)
);

CREATE TABLE posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT,
    created_at TIMESTAMP NOT NULL,
    author_id INTEGER NOT NULL REFERENCES accounts (id) ON DELETE CASCADE
);

CREATE TABLE comments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    body TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    post_id INTEGER NOT NULL REFERENCES posts (id) ON DELETE CASCADE,
    author_id INTEGER NOT NULL REFERENCES accounts (id) ON DELETE CASCADE
);
`

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "socialnet_test.db") + "?_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}

	app := &application{
		config:  cfg,
		logger:  logger,
		core:    core.New(db, logger),
		auth:    auth.New(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		session: databaseutils.NewSession(db),
	}

	return app, db
}

func newTestServer(t *testing.T) (*application, *sql.DB, *httptest.Server) {
	t.Helper()

	app, db := newTestApplication(t)
	ts := httptest.NewServer(app.routes())
	t.Cleanup(ts.Close)

	return app, db, ts
}

// doRequest issues a request against the test server and decodes the JSON
// response body, if any, into a generic map.
func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp, decoded
}

func registerAccountForTest(t *testing.T, ts *httptest.Server, username string) {
	t.Helper()

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/register/", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func authenticateForTest(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()

	resp, body := doRequest(t, ts, http.MethodPost, "/api/authenticate/", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	access, ok := body["access"].(string)
	require.True(t, ok)
	require.NotEmpty(t, access)

	return access
}

func accountIDByUsername(t *testing.T, app *application, username string) int64 {
	t.Helper()

	account, err := app.core.GetAccountByUsername(context.Background(), username)
	require.NoError(t, err)

	return account.ID
}
