package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"

	"socialnet/internal/utils/databaseutils"
	"socialnet/models"
)

func (c *Core) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	insertSQL := `
		INSERT INTO posts (title, description, created_at, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, created_at, author_id
	`

	newPost, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanPost,
		post.Title, post.Description, post.CreatedAt, post.AuthorID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return newPost, nil
}

// GetPostOfAuthor fetches a post only when it belongs to the given author.
// A post owned by someone else is indistinguishable from a missing one;
// both are NoRecordFound.
func (c *Core) GetPostOfAuthor(ctx context.Context, postID, authorID int64) (*models.Post, error) {
	query := `
		SELECT id, title, description, created_at, author_id
		FROM posts
		WHERE id = $1 AND author_id = $2
	`

	post, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanPost, postID, authorID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return post, nil
}

func (c *Core) GetPostByID(ctx context.Context, postID int64) (*models.Post, error) {
	query := `
		SELECT id, title, description, created_at, author_id
		FROM posts
		WHERE id = $1
	`

	post, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanPost, postID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return post, nil
}

// DeletePostOfAuthor removes a post under the same ownership predicate as
// GetPostOfAuthor. Its comments go with it via the cascade.
func (c *Core) DeletePostOfAuthor(ctx context.Context, postID, authorID int64) error {
	deleteSQL := `
		DELETE FROM posts
		WHERE id = $1 AND author_id = $2
	`

	affected, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, postID, authorID)
	if err != nil {
		return xerrors.New(err)
	}

	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}

	return nil
}

// GetAllPosts returns every post across all accounts, newest first. The id
// is the tie-breaker for posts created in the same instant.
func (c *Core) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	query := `
		SELECT id, title, description, created_at, author_id
		FROM posts
		ORDER BY created_at DESC, id DESC
	`

	posts, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanPost)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return posts, nil
}

func scanPost(rows *sql.Rows) (*models.Post, error) {
	post := &models.Post{}
	if err := rows.Scan(&post.ID, &post.Title, &post.Description, &post.CreatedAt, &post.AuthorID); err != nil {
		return nil, xerrors.New(err)
	}
	return post, nil
}
