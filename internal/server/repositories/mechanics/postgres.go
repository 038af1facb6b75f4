package mechanics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dvi/internal/common"
	"github.com/dmitrijs2005/dvi/internal/dbx"
	shared "github.com/dmitrijs2005/dvi/internal/models"
	"github.com/dmitrijs2005/dvi/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Mechanic) (*models.Mechanic, error) {
	query :=
		`INSERT INTO mechanics (name, pin_hash, company_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	company := sql.NullInt64{Int64: m.CompanyID, Valid: m.CompanyID != 0}
	err := r.db.QueryRowContext(ctx, query, m.Name, m.PINHash, company).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Mechanic, error) {
	query :=
		`SELECT id, name, pin_hash, created_at FROM mechanics
		 WHERE id = $1
		 `

	m := &models.Mechanic{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name, &m.PINHash, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

// ListByCompany returns the company's mechanics that may sign in on a device,
// ordered by name.
func (r *PostgresRepository) ListByCompany(ctx context.Context, companyID int64) ([]shared.MechanicInfo, error) {
	query :=
		`SELECT id, name, company_id FROM mechanics
		 WHERE company_id = $1 AND mobile_enabled
		 ORDER BY name, id
		 `

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []shared.MechanicInfo{}
	for rows.Next() {
		var m shared.MechanicInfo
		if err := rows.Scan(&m.ID, &m.Name, &m.CompanyID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}
