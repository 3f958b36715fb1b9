package main

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAuthenticateAndRefresh(t *testing.T) {
	_, _, ts := newTestServer(t)

	registerAccountForTest(t, ts, "alice")

	resp, body := doRequest(t, ts, http.MethodPost, "/api/authenticate/", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["access"])
	require.NotEmpty(t, body["refresh"])

	// A fresh access token from the refresh endpoint works on a
	// protected route.
	resp, body = doRequest(t, ts, http.MethodPost, "/api/authenticate/refresh/", "", map[string]string{
		"refresh": body["refresh"].(string),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	access, ok := body["access"].(string)
	require.True(t, ok)

	resp, _ = doRequest(t, ts, http.MethodGet, "/api/user/", access, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	_, _, ts := newTestServer(t)

	registerAccountForTest(t, ts, "alice")
	access := authenticateForTest(t, ts, "alice")

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/authenticate/refresh/", "", map[string]string{
		"refresh": access,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, _, ts := newTestServer(t)

	registerAccountForTest(t, ts, "alice")

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/register/", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProtectedEndpointsRequireAuthentication(t *testing.T) {
	_, _, ts := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user/"},
		{http.MethodPost, "/api/follow/1/"},
		{http.MethodPost, "/api/unfollow/1/"},
		{http.MethodPost, "/api/posts/"},
		{http.MethodGet, "/api/posts/1/"},
		{http.MethodDelete, "/api/posts/1/"},
		{http.MethodPost, "/api/comment/1/"},
		{http.MethodGet, "/api/all_posts/"},
	}

	for _, route := range routes {
		resp, _ := doRequest(t, ts, route.method, route.path, "", nil)
		assert.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
	}
}

func TestGarbageTokenIsRejected(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, _ := doRequest(t, ts, http.MethodGet, "/api/user/", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFollowUnfollowFlow(t *testing.T) {
	app, _, ts := newTestServer(t)

	registerAccountForTest(t, ts, "alice")
	registerAccountForTest(t, ts, "bob")
	aliceToken := authenticateForTest(t, ts, "alice")
	bobToken := authenticateForTest(t, ts, "bob")

	aliceID := accountIDByUsername(t, app, "alice")
	bobID := accountIDByUsername(t, app, "bob")

	resp, _ := doRequest(t, ts, http.MethodPost, fmt.Sprintf("/api/follow/%d/", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doRequest(t, ts, http.MethodGet, "/api/user/", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"username": "alice"}, body["user"])
	assert.Equal(t, []any{float64(bobID)}, body["followings"])
	assert.Equal(t, []any{}, body["followers"])

	resp, body = doRequest(t, ts, http.MethodGet, "/api/user/", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{float64(aliceID)}, body["followers"])
	assert.Equal(t, []any{}, body["followings"])

	// Following twice leaves the sets unchanged.
	resp, _ = doRequest(t, ts, http.MethodPost, fmt.Sprintf("/api/follow/%d/", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doRequest(t, ts, http.MethodGet, "/api/user/", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{float64(bobID)}, body["followings"])

	resp, _ = doRequest(t, ts, http.MethodPost, fmt.Sprintf("/api/unfollow/%d/", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doRequest(t, ts, http.MethodGet, "/api/user/", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, body["followings"])

	resp, body = doRequest(t, ts, http.MethodGet, "/api/user/", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, body["followers"])
}

func TestFollowUnknownAccountIs404(t *testing.T) {
	_, _, ts := newTestServer(t)

	registerAccountForTest(t, ts, "alice")
	token := authenticateForTest(t, ts, "alice")

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/follow/9999/", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// The end-to-end scenario: create, comment, ownership isolation, cascade.
func TestPostLifecycle(t *testing.T) {
	app, _, ts := newTestServer(t)

	registerAccountForTest(t, ts, "writer")
	registerAccountForTest(t, ts, "reader")
	writerToken := authenticateForTest(t, ts, "writer")
	readerToken := authenticateForTest(t, ts, "reader")

	resp, body := doRequest(t, ts, http.MethodPost, "/api/posts/", writerToken, map[string]string{
		"title":       "Hello",
		"description": "world",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Hello", body["title"])
	assert.Equal(t, "world", body["description"])
	assert.Equal(t, []any{}, body["comments"])
	postID := int64(body["id"].(float64))
	require.NotZero(t, postID)

	resp, body = doRequest(t, ts, http.MethodPost, fmt.Sprintf("/api/comment/%d/", postID), readerToken, map[string]string{
		"comment": "nice!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "nice!", body["comment"])
	assert.NotEmpty(t, body["created_at"])
	assert.NotZero(t, body["id"])

	// The owner sees the comment on the single-post view.
	resp, body = doRequest(t, ts, http.MethodGet, fmt.Sprintf("/api/posts/%d/", postID), writerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Hello", data["title"])
	comments := data["comments"].([]any)
	require.Len(t, comments, 1)
	assert.Equal(t, map[string]any{"comment": "nice!"}, comments[0])

	// A non-owner can neither fetch nor delete it.
	resp, _ = doRequest(t, ts, http.MethodGet, fmt.Sprintf("/api/posts/%d/", postID), readerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, ts, http.MethodDelete, fmt.Sprintf("/api/posts/%d/", postID), readerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The owner deletes it, taking the comments along.
	resp, _ = doRequest(t, ts, http.MethodDelete, fmt.Sprintf("/api/posts/%d/", postID), writerToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	remaining, err := app.core.GetCommentsByPostID(context.Background(), postID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	resp, _ = doRequest(t, ts, http.MethodGet, fmt.Sprintf("/api/posts/%d/", postID), writerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePostValidation(t *testing.T) {
	_, _, ts := newTestServer(t)

	registerAccountForTest(t, ts, "alice")
	token := authenticateForTest(t, ts, "alice")

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/posts/", token, map[string]string{
		"title": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	longTitle := make([]byte, 256)
	for i := range longTitle {
		longTitle[i] = 'a'
	}
	resp, _ = doRequest(t, ts, http.MethodPost, "/api/posts/", token, map[string]string{
		"title": string(longTitle),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommentValidationAndUnknownPost(t *testing.T) {
	_, _, ts := newTestServer(t)

	registerAccountForTest(t, ts, "alice")
	token := authenticateForTest(t, ts, "alice")

	resp, _ := doRequest(t, ts, http.MethodPost, "/api/comment/9999/", token, map[string]string{
		"comment": "hello",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := doRequest(t, ts, http.MethodPost, "/api/posts/", token, map[string]string{
		"title": "a post",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := int64(body["id"].(float64))

	resp, _ = doRequest(t, ts, http.MethodPost, fmt.Sprintf("/api/comment/%d/", postID), token, map[string]string{
		"comment": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFeedNewestFirstWithFlattenedComments(t *testing.T) {
	_, _, ts := newTestServer(t)

	registerAccountForTest(t, ts, "alice")
	registerAccountForTest(t, ts, "bob")
	aliceToken := authenticateForTest(t, ts, "alice")
	bobToken := authenticateForTest(t, ts, "bob")

	var postIDs []int64
	for _, title := range []string{"first", "second", "third"} {
		resp, body := doRequest(t, ts, http.MethodPost, "/api/posts/", aliceToken, map[string]string{
			"title": title,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		postIDs = append(postIDs, int64(body["id"].(float64)))
	}

	for _, comment := range []string{"one", "two"} {
		resp, _ := doRequest(t, ts, http.MethodPost, fmt.Sprintf("/api/comment/%d/", postIDs[0]), bobToken, map[string]string{
			"comment": comment,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// The feed is visible to everyone, newest post first, comments
	// flattened to their text.
	resp, body := doRequest(t, ts, http.MethodGet, "/api/all_posts/", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].([]any)
	require.Len(t, data, 3)

	titles := make([]string, 0, len(data))
	for _, entry := range data {
		titles = append(titles, entry.(map[string]any)["title"].(string))
	}
	assert.Equal(t, []string{"third", "second", "first"}, titles)

	oldest := data[2].(map[string]any)
	assert.Equal(t, []any{"one", "two"}, oldest["comments"])

	newest := data[0].(map[string]any)
	assert.Equal(t, []any{}, newest["comments"])
}

func TestGetOwnProfileWithoutProfileRowIs404(t *testing.T) {
	app, db, ts := newTestServer(t)

	registerAccountForTest(t, ts, "alice")
	token := authenticateForTest(t, ts, "alice")

	aliceID := accountIDByUsername(t, app, "alice")
	_, err := db.Exec(`DELETE FROM profiles WHERE account_id = $1`, aliceID)
	require.NoError(t, err)

	resp, _ := doRequest(t, ts, http.MethodGet, "/api/user/", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
