package inspections

import (
	"context"

	"github.com/dmitrijs2005/dvi/internal/models"
)

type Repository interface {
	// CreateSubmission stores the submission header. created is false when a
	// row with the same submission id already exists; pk is then zero.
	CreateSubmission(ctx context.Context, s *models.Submission) (pk int64, created bool, err error)
	AddResult(ctx context.Context, submissionPK, orderID int64, r *models.InspectionResult) error
}
