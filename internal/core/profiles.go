package core

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"

	"socialnet/internal/auth"
	"socialnet/internal/utils/databaseutils"
	"socialnet/models"
)

// GetProfile returns the username plus the derived follower/following id
// sets of an account. A missing profile row is a NoRecordFound, not an
// empty profile.
func (c *Core) GetProfile(ctx context.Context, account *auth.Account) (*models.Profile, error) {
	if err := c.checkProfileExists(ctx, account.ID); err != nil {
		return nil, err
	}

	followersSQL := `
		SELECT follower_id
		FROM follows
		WHERE followee_id = $1
		ORDER BY follower_id
	`

	followers, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, followersSQL, scanID, account.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	followingsSQL := `
		SELECT followee_id
		FROM follows
		WHERE follower_id = $1
		ORDER BY followee_id
	`

	followings, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, followingsSQL, scanID, account.ID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	// Empty sets render as [] on the wire, never null.
	if followers == nil {
		followers = []int64{}
	}
	if followings == nil {
		followings = []int64{}
	}

	return &models.Profile{
		AccountID:  account.ID,
		Username:   account.Username,
		Followers:  followers,
		Followings: followings,
	}, nil
}

// Follow adds a directed edge from the follower to the followee. Following
// an already-followed account is a no-op (set semantics). Fails with
// NoRecordFound when the followee account or either profile is missing.
func (c *Core) Follow(ctx context.Context, follower *auth.Account, followeeID int64) error {
	followee, err := c.GetAccountByID(ctx, followeeID)
	if err != nil {
		return err
	}

	if err := c.checkProfileExists(ctx, follower.ID); err != nil {
		return err
	}
	if err := c.checkProfileExists(ctx, followee.ID); err != nil {
		return err
	}

	insertSQL := `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, insertSQL, follower.ID, followee.ID); err != nil {
		return xerrors.New(err)
	}

	return nil
}

// Unfollow removes the directed edge. Removing a non-existent edge is a
// no-op, not an error.
func (c *Core) Unfollow(ctx context.Context, follower *auth.Account, followeeID int64) error {
	followee, err := c.GetAccountByID(ctx, followeeID)
	if err != nil {
		return err
	}

	if err := c.checkProfileExists(ctx, follower.ID); err != nil {
		return err
	}
	if err := c.checkProfileExists(ctx, followee.ID); err != nil {
		return err
	}

	deleteSQL := `
		DELETE FROM follows
		WHERE follower_id = $1 AND followee_id = $2
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, follower.ID, followee.ID); err != nil {
		return xerrors.New(err)
	}

	return nil
}

func (c *Core) checkProfileExists(ctx context.Context, accountID int64) error {
	query := `
		SELECT account_id
		FROM profiles
		WHERE account_id = $1
	`

	_, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanID, accountID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return xerrors.New(NoRecordFound)
		default:
			return xerrors.New(err)
		}
	}

	return nil
}

func scanID(rows *sql.Rows) (int64, error) {
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, xerrors.New(err)
	}
	return id, nil
}
