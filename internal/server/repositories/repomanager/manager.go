package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/workcredits/internal/dbx"
	"github.com/dmitrijs2005/workcredits/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/workcredits/internal/server/repositories/transactions"
)

// RepositoryManager vends repositories bound to a database handle or an
// open transaction, and owns schema migrations.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Transactions(db dbx.DBTX) transactions.Repository
	Accounts(db dbx.DBTX) accounts.Repository
}
