package syncer

import (
	"context"

	"github.com/dmitrijs2005/dvi/internal/models"
)

// Uploader delivers one submission. One call is one attempt.
type Uploader interface {
	Upload(ctx context.Context, s models.Submission) error
}

type UploaderFunc func(ctx context.Context, s models.Submission) error

func (f UploaderFunc) Upload(ctx context.Context, s models.Submission) error { return f(ctx, s) }
