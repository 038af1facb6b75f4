package mechanics

import (
	"context"

	shared "github.com/dmitrijs2005/dvi/internal/models"
	"github.com/dmitrijs2005/dvi/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Mechanic) (*models.Mechanic, error)
	GetByID(ctx context.Context, id int64) (*models.Mechanic, error)
	ListByCompany(ctx context.Context, companyID int64) ([]shared.MechanicInfo, error)
}
