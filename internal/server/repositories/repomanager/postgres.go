// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/dvi/internal/dbx"
	"github.com/dmitrijs2005/dvi/internal/server/migrations"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/companies"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/inspections"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/lineitems"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/mechanics"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/workorders"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Mechanics returns a mechanics.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Mechanics(db dbx.DBTX) mechanics.Repository {
	return mechanics.NewPostgresRepository(db)
}

// LineItems returns a lineitems.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) LineItems(db dbx.DBTX) lineitems.Repository {
	return lineitems.NewPostgresRepository(db)
}

// Inspections returns an inspections.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Inspections(db dbx.DBTX) inspections.Repository {
	return inspections.NewPostgresRepository(db)
}

// WorkOrders returns a workorders.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) WorkOrders(db dbx.DBTX) workorders.Repository {
	return workorders.NewPostgresRepository(db)
}

// Companies returns a companies.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Companies(db dbx.DBTX) companies.Repository {
	return companies.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
