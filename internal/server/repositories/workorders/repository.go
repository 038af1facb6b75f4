package workorders

import (
	"context"

	"github.com/dmitrijs2005/dvi/internal/models"
)

type Repository interface {
	ListOpenByMechanic(ctx context.Context, mechanicID int64) ([]models.WorkOrder, error)
}
