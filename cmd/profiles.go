package main

import (
	"context"
	"errors"
	"net/http"

	"socialnet/internal/core"
)

func (app *application) getOwnProfile(w http.ResponseWriter, r *http.Request) {
	account, err := app.auth.GetAuthenticatedAccount(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	profile, err := app.core.GetProfile(r.Context(), account)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	response := envelope{
		"user": map[string]any{
			"username": profile.Username,
		},
		"followers":  profile.Followers,
		"followings": profile.Followings,
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) followAccount(w http.ResponseWriter, r *http.Request) {
	followeeID, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	account, err := app.auth.GetAuthenticatedAccount(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	// Lookup and edge insert run in one transaction scope so concurrent
	// follow/unfollow on the same pair cannot interleave.
	err = app.session.DoTransactionally(r.Context(), func(txCtx context.Context) error {
		return app.core.Follow(txCtx, account, followeeID)
	})

	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (app *application) unfollowAccount(w http.ResponseWriter, r *http.Request) {
	followeeID, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	account, err := app.auth.GetAuthenticatedAccount(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	err = app.session.DoTransactionally(r.Context(), func(txCtx context.Context) error {
		return app.core.Unfollow(txCtx, account, followeeID)
	})

	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}
