package core

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mdobak/go-xerrors"

	"socialnet/internal/auth"
	"socialnet/internal/utils/databaseutils"
)

// CreateAccount inserts the account and provisions its profile row. The
// caller is expected to run it inside a transaction so both rows appear
// together.
func (c *Core) CreateAccount(ctx context.Context, account *auth.Account) error {
	insertAccountSQL := `
		INSERT INTO accounts (username, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`

	_, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, insertAccountSQL, func(rows *sql.Rows) (*auth.Account, error) {
		if err := rows.Scan(&account.ID); err != nil {
			return nil, xerrors.New(err)
		}
		return account, nil
	}, account.Username, account.Password)

	if err != nil {
		switch {
		case strings.Contains(strings.ToLower(err.Error()), "unique constraint"):
			return xerrors.New(ErrDuplicateUsername)
		default:
			return xerrors.New(err)
		}
	}

	insertProfileSQL := `
		INSERT INTO profiles (account_id)
		VALUES ($1)
	`

	if _, err := databaseutils.ExecuteUpdate(c.sqlTemplate, ctx, insertProfileSQL, account.ID); err != nil {
		return xerrors.New(err)
	}

	return nil
}

func (c *Core) GetAccountByUsername(ctx context.Context, username string) (*auth.Account, error) {
	query := `
		SELECT id, username, password_hash
		FROM accounts
		WHERE username = $1
	`

	account, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanAccount, username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return account, nil
}

func (c *Core) GetAccountByID(ctx context.Context, id int64) (*auth.Account, error) {
	query := `
		SELECT id, username, password_hash
		FROM accounts
		WHERE id = $1
	`

	account, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanAccount, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return account, nil
}

func scanAccount(rows *sql.Rows) (*auth.Account, error) {
	account := &auth.Account{}
	if err := rows.Scan(&account.ID, &account.Username, &account.Password); err != nil {
		return nil, xerrors.New(err)
	}
	return account, nil
}
