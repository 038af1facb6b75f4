package companies

import (
	"context"

	"github.com/dmitrijs2005/dvi/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Company, error)
}
