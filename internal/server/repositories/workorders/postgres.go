package workorders

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dvi/internal/dbx"
	"github.com/dmitrijs2005/dvi/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListOpenByMechanic returns the mechanic's orders that are neither invoiced
// nor closed, newest first.
func (r *PostgresRepository) ListOpenByMechanic(ctx context.Context, mechanicID int64) ([]models.WorkOrder, error) {
	query :=
		`SELECT id, mechanic_id, first_name, last_name, car_year, make, model, engine_type, license, status, created_at
		 FROM work_orders
		 WHERE mechanic_id = $1 AND status NOT IN ($2, $3)
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, mechanicID, models.WorkOrderInvoiced, models.WorkOrderClosed)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	orders := []models.WorkOrder{}
	for rows.Next() {
		var w models.WorkOrder
		if err := rows.Scan(&w.ID, &w.MechanicID, &w.FirstName, &w.LastName, &w.CarYear,
			&w.Make, &w.Model, &w.EngineType, &w.License, &w.Status, &w.Date); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		orders = append(orders, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return orders, nil
}
