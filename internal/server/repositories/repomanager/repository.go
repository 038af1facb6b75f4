package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/dvi/internal/dbx"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/companies"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/inspections"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/lineitems"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/mechanics"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/workorders"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Mechanics(db dbx.DBTX) mechanics.Repository
	LineItems(db dbx.DBTX) lineitems.Repository
	Inspections(db dbx.DBTX) inspections.Repository
	WorkOrders(db dbx.DBTX) workorders.Repository
	Companies(db dbx.DBTX) companies.Repository
}
