package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/dvi/internal/common"
	"github.com/dmitrijs2005/dvi/internal/models"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/repomanager"
)

// DirectoryService answers the read-only lookups a device makes before and
// after sign-in: shops, their mechanics and a mechanic's open work orders.
type DirectoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDirectoryService(db *sql.DB, m repomanager.RepositoryManager) *DirectoryService {
	return &DirectoryService{db: db, repomanager: m}
}

func (s *DirectoryService) Companies(ctx context.Context) ([]models.Company, error) {
	return s.repomanager.Companies(s.db).List(ctx)
}

func (s *DirectoryService) Mechanics(ctx context.Context, companyID int64) ([]models.MechanicInfo, error) {
	if companyID <= 0 {
		return nil, fmt.Errorf("%w: company id must be positive", common.ErrorValidation)
	}
	return s.repomanager.Mechanics(s.db).ListByCompany(ctx, companyID)
}

// WorkOrders returns the mechanic's open orders.
func (s *DirectoryService) WorkOrders(ctx context.Context, mechanicID int64) ([]models.WorkOrder, error) {
	if mechanicID <= 0 {
		return nil, fmt.Errorf("%w: mechanic id must be positive", common.ErrorValidation)
	}
	return s.repomanager.WorkOrders(s.db).ListOpenByMechanic(ctx, mechanicID)
}
