package core

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/mdobak/go-xerrors"

	"socialnet/internal/utils/databaseutils"
)

var (
	NoRecordFound        = xerrors.Message("no matching record found")
	ErrDuplicateUsername = xerrors.Message("duplicate username")
)

// Core owns every database access in the application.
type Core struct {
	log         *slog.Logger
	db          *sql.DB
	sqlTemplate *databaseutils.SQLTemplate
}

func New(dbConn *sql.DB, log *slog.Logger) *Core {
	return &Core{
		log:         log,
		db:          dbConn,
		sqlTemplate: databaseutils.NewSQLTemplate(dbConn, 3*time.Second),
	}
}
