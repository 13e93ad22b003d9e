// Package repomanager wires repository constructors to a database handle and
// owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/fairplay-su/scdm-server/internal/dbx"
	"github.com/fairplay-su/scdm-server/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
