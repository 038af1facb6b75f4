package lineitems

import (
	"context"

	"github.com/dmitrijs2005/dvi/internal/models"
)

type Repository interface {
	ListByOrder(ctx context.Context, orderID int64) ([]models.LineItem, error)
}
