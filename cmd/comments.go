package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"socialnet/internal/core"
	"socialnet/internal/utils/databaseutils"
	"socialnet/internal/validator"
	"socialnet/models"
)

// CommentResponse is the wire shape of a freshly created comment.
type CommentResponse struct {
	ID        int64     `json:"id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (app *application) createComment(w http.ResponseWriter, r *http.Request) {
	type createCommentPayload struct {
		Comment string `json:"comment"`
	}

	var createCommentRequest createCommentPayload

	if err := app.readJSON(w, r, &createCommentRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(createCommentRequest.Comment, "comment", "must be provided")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	postID, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	account, err := app.auth.GetAuthenticatedAccount(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	// Any authenticated account may comment on any post; only existence of
	// the post is checked.
	newComment, err := databaseutils.DoTransactionally(r.Context(), app.session, func(txCtx context.Context) (*models.Comment, error) {
		post, err := app.core.GetPostByID(txCtx, postID)
		if err != nil {
			return nil, err
		}

		return app.core.CreateComment(txCtx, &models.Comment{
			Body:      createCommentRequest.Comment,
			CreatedAt: time.Now().UTC(),
			PostID:    post.ID,
			AuthorID:  account.ID,
		})
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

	response := CommentResponse{
		ID:        newComment.ID,
		Comment:   newComment.Body,
		CreatedAt: newComment.CreatedAt,
	}

	if err := app.writeJSON(w, http.StatusCreated, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
