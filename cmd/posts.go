package main

import (
	"errors"
	"net/http"
	"time"

	"socialnet/internal/core"
	"socialnet/internal/utils/collectionutils"
	"socialnet/internal/utils/functional"
	"socialnet/internal/validator"
	"socialnet/models"
)

// PostResponse is the single-post wire shape. Comments carry only their
// text in this view.
type PostResponse struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Description *string            `json:"description"`
	CreatedAt   time.Time          `json:"created_at"`
	Comments    []CommentBodyEntry `json:"comments"`
}

type CommentBodyEntry struct {
	Comment string `json:"comment"`
}

// FeedPostResponse is the all-posts wire shape; comments flatten to a
// plain list of strings.
type FeedPostResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Comments    []string  `json:"comments"`
}

func (app *application) createPost(w http.ResponseWriter, r *http.Request) {
	type createPostPayload struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}

	var createPostRequest createPostPayload

	if err := app.readJSON(w, r, &createPostRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(createPostRequest.Title, "title", "must be provided")
	v.Check(len(createPostRequest.Title) <= 255, "title", "must not be more than 255 characters long")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	account, err := app.auth.GetAuthenticatedAccount(r)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	post, err := app.core.CreatePost(r.Context(), &models.Post{
		Title:       createPostRequest.Title,
		Description: createPostRequest.Description,
		CreatedAt:   time.Now().UTC(),
		AuthorID:    account.ID,
	})
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, postResponse(post, nil), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getOwnPost(w http.ResponseWriter, r *http.Request) {
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

	post, err := app.core.GetPostOfAuthor(r.Context(), postID, account.ID)
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

	comments, err := app.core.GetCommentsByPostID(r.Context(), post.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"data": postResponse(post, comments),
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteOwnPost(w http.ResponseWriter, r *http.Request) {
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

	if err := app.core.DeletePostOfAuthor(r.Context(), postID, account.ID); err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) listAllPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := app.core.GetAllPosts(r.Context())
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	postIDList := functional.Map(posts, func(post *models.Post) int64 {
		return post.ID
	})

	commentsByPostID, err := app.core.CommentBodiesByPostID(r.Context(), postIDList)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	feed := make([]FeedPostResponse, 0, len(posts))
	for _, post := range posts {
		feed = append(feed, FeedPostResponse{
			ID:          post.ID,
			Title:       post.Title,
			Description: post.Description,
			CreatedAt:   post.CreatedAt,
			Comments:    collectionutils.GetOrDefault(commentsByPostID, post.ID, []string{}),
		})
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"data": feed}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func postResponse(post *models.Post, comments []*models.Comment) PostResponse {
	commentEntries := make([]CommentBodyEntry, 0, len(comments))
	for _, comment := range comments {
		commentEntries = append(commentEntries, CommentBodyEntry{Comment: comment.Body})
	}

	return PostResponse{
		ID:          post.ID,
		Title:       post.Title,
		Description: post.Description,
		CreatedAt:   post.CreatedAt,
		Comments:    commentEntries,
	}
}
