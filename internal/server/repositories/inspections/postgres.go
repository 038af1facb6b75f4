package inspections

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) CreateSubmission(ctx context.Context, s *models.Submission) (int64, bool, error) {
	query :=
		`INSERT INTO inspection_submissions (submission_id, order_id, mechanic_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (submission_id) DO NOTHING
		 RETURNING id
		 `

	subID := sql.NullString{String: s.SubmissionID, Valid: s.SubmissionID != ""}
	createdAt := sql.NullTime{Time: s.CreatedAt, Valid: !s.CreatedAt.IsZero()}

	var pk int64
	err := r.db.QueryRowContext(ctx, query, subID, s.OrderID, s.MechanicID, createdAt).Scan(&pk)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("db error: %w", err)
	}

	return pk, true, nil
}

func (r *PostgresRepository) AddResult(ctx context.Context, submissionPK, orderID int64, res *models.InspectionResult) error {
	query :=
		`INSERT INTO inspection_results (submission_pk, order_id, line_item_id, status, reason, photo_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	reason := sql.NullString{String: res.Reason, Valid: res.Reason != ""}
	photo := sql.NullString{String: res.Photo, Valid: res.Photo != ""}

	_, err := r.db.ExecContext(ctx, query, submissionPK, orderID, res.LineItemID, string(res.Status), reason, photo)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
