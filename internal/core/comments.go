package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mdobak/go-xerrors"

	"socialnet/internal/utils/collectionutils"
	"socialnet/internal/utils/databaseutils"
	"socialnet/internal/utils/functional"
	"socialnet/internal/utils/stringutils"
	"socialnet/models"
)

func (c *Core) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	insertSQL := `
		INSERT INTO comments (body, created_at, post_id, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, body, created_at, post_id, author_id
	`

	newComment, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanComment,
		comment.Body, comment.CreatedAt, comment.PostID, comment.AuthorID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return newComment, nil
}

func (c *Core) GetCommentsByPostID(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `
		SELECT id, body, created_at, post_id, author_id
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at, id
	`

	comments, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanComment, postID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return comments, nil
}

// CommentBodiesByPostID fetches the comment bodies of all given posts in a
// single batched query and groups them per post, preserving per-post
// creation order.
func (c *Core) CommentBodiesByPostID(ctx context.Context, postIDs []int64) (map[int64][]string, error) {
	if len(postIDs) == 0 {
		return map[int64][]string{}, nil
	}

	placeholders, args := stringutils.INClause(postIDs)
	query := fmt.Sprintf(`
		SELECT post_id, body
		FROM comments
		WHERE post_id IN (%s)
		ORDER BY created_at, id
	`, strings.Join(placeholders, ", "))

	type commentRow struct {
		postID int64
		body   string
	}

	rows, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (commentRow, error) {
		var row commentRow
		if err := rows.Scan(&row.postID, &row.body); err != nil {
			return commentRow{}, xerrors.New(err)
		}
		return row, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	grouped := collectionutils.GroupBy(rows, func(row commentRow) int64 { return row.postID })

	bodiesByPostID := make(map[int64][]string, len(grouped))
	for postID, group := range grouped {
		bodiesByPostID[postID] = functional.Map(group, func(row commentRow) string { return row.body })
	}

	return bodiesByPostID, nil
}

func scanComment(rows *sql.Rows) (*models.Comment, error) {
	comment := &models.Comment{}
	if err := rows.Scan(&comment.ID, &comment.Body, &comment.CreatedAt, &comment.PostID, &comment.AuthorID); err != nil {
		return nil, xerrors.New(err)
	}
	return comment, nil
}
