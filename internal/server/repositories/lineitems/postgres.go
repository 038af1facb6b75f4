package lineitems

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

// ListByOrder returns the work order's line items in display order. An
// unknown order yields an empty slice.
func (r *PostgresRepository) ListByOrder(ctx context.Context, orderID int64) ([]models.LineItem, error) {
	query :=
		`SELECT id, order_id, description, category FROM line_items
		 WHERE order_id = $1
		 ORDER BY position, id
		 `

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []models.LineItem{}
	for rows.Next() {
		var li models.LineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.Description, &li.Category); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return items, nil
}
