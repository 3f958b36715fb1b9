package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)

	// Not require authentication for these routes
	router.HandlerFunc(http.MethodPost, "/api/register/", app.registerAccount)
	router.HandlerFunc(http.MethodPost, "/api/authenticate/", app.authenticateAccount)
	router.HandlerFunc(http.MethodPost, "/api/authenticate/refresh/", app.refreshToken)

	// Require authentication for these routes
	router.HandlerFunc(http.MethodGet, "/api/user/", app.requireAuthenticatedAccount(app.getOwnProfile))
	router.HandlerFunc(http.MethodPost, "/api/follow/:id/", app.requireAuthenticatedAccount(app.followAccount))
	router.HandlerFunc(http.MethodPost, "/api/unfollow/:id/", app.requireAuthenticatedAccount(app.unfollowAccount))
	router.HandlerFunc(http.MethodPost, "/api/posts/", app.requireAuthenticatedAccount(app.createPost))
	router.HandlerFunc(http.MethodGet, "/api/posts/:id/", app.requireAuthenticatedAccount(app.getOwnPost))
	router.HandlerFunc(http.MethodDelete, "/api/posts/:id/", app.requireAuthenticatedAccount(app.deleteOwnPost))
	router.HandlerFunc(http.MethodPost, "/api/comment/:id/", app.requireAuthenticatedAccount(app.createComment))
	router.HandlerFunc(http.MethodGet, "/api/all_posts/", app.requireAuthenticatedAccount(app.listAllPosts))

	return app.logRequest(app.recoverPanic(app.authenticate(router)))
}
