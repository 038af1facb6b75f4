package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/dvi/internal/common"
	"github.com/dmitrijs2005/dvi/internal/dbx"
	"github.com/dmitrijs2005/dvi/internal/models"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/repomanager"
)

type InspectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewInspectionService(db *sql.DB, m repomanager.RepositoryManager) *InspectionService {
	return &InspectionService{db: db, repomanager: m}
}

// Submit stores a submission and its results in one transaction.
// duplicate is true when the submission id was already stored; nothing is
// written in that case.
func (s *InspectionService) Submit(ctx context.Context, sub *models.Submission) (duplicate bool, err error) {
	if err := sub.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Inspections(tx)

		pk, created, err := repo.CreateSubmission(ctx, sub)
		if err != nil {
			return fmt.Errorf("error saving submission: %w", err)
		}
		if !created {
			duplicate = true
			return nil
		}

		for i := range sub.Items {
			if err := repo.AddResult(ctx, pk, sub.OrderID, &sub.Items[i]); err != nil {
				return fmt.Errorf("error saving result %d: %w", sub.Items[i].LineItemID, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return duplicate, nil
}

func (s *InspectionService) LineItems(ctx context.Context, orderID int64) ([]models.LineItem, error) {
	return s.repomanager.LineItems(s.db).ListByOrder(ctx, orderID)
}
