package main

import (
	"errors"
	"net/http"

	"socialnet/internal/core"
	"socialnet/internal/validator"
)

func (app *application) authenticateAccount(w http.ResponseWriter, r *http.Request) {
	type authenticatePayload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var authenticateRequest authenticatePayload

	if err := app.readJSON(w, r, &authenticateRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(authenticateRequest.Username, "username", "must be provided")
	v.CheckNotBlank(authenticateRequest.Password, "password", "must be provided")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	account, err := app.core.GetAccountByUsername(r.Context(), authenticateRequest.Username)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.badRequestResponse(w, r, &AppError{
				ErrorMessage: "Invalid credentials",
				ErrorStack:   err,
			})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	match, err := account.IsPasswordMatch(authenticateRequest.Password)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !match {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: "Invalid credentials",
		})
		return
	}

	access, refresh, err := app.auth.GenerateTokenPair(account)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"refresh": refresh,
		"access":  access,
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) refreshToken(w http.ResponseWriter, r *http.Request) {
	type refreshPayload struct {
		Refresh string `json:"refresh"`
	}

	var refreshRequest refreshPayload

	if err := app.readJSON(w, r, &refreshRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(refreshRequest.Refresh, "refresh", "must be provided")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	claim, err := app.auth.VerifyRefreshToken(refreshRequest.Refresh)
	if err != nil {
		app.invalidAuthenticationTokenResponse(w, r, err)
		return
	}

	account, err := app.core.GetAccountByUsername(r.Context(), claim.Username)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.invalidAuthenticationTokenResponse(w, r, err)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	access, err := app.auth.GenerateAccessToken(account)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"access": access}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
