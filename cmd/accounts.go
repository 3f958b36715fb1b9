package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"socialnet/internal/auth"
	"socialnet/internal/core"
	"socialnet/internal/validator"
)

func (app *application) registerAccount(w http.ResponseWriter, r *http.Request) {
	type registerAccountPayload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var registerAccountRequest registerAccountPayload

	if err := app.readJSON(w, r, &registerAccountRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	account := &auth.Account{
		Username: strings.TrimSpace(registerAccountRequest.Username),
	}

	v := validator.New()
	v.CheckNotBlank(account.Username, "username", "must be provided")
	v.Check(len(account.Username) >= 3, "username", "must be at least 3 characters long")
	v.CheckNotBlank(registerAccountRequest.Password, "password", "must be provided")
	v.Check(len(registerAccountRequest.Password) >= 8, "password", "must be at least 8 characters long")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	if err := account.SetPassword(registerAccountRequest.Password); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	// The account and its profile row appear together or not at all.
	err := app.session.DoTransactionally(r.Context(), func(txCtx context.Context) error {
		return app.core.CreateAccount(txCtx, account)
	})

	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateUsername):
			v.AddError("username", "Username is already in use")
			app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	response := envelope{
		"user": map[string]any{
			"username": account.Username,
		},
	}

	if err := app.writeJSON(w, http.StatusCreated, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
