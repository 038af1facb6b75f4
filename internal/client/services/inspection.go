package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/dvi/internal/models"
)

// Enqueuer accepts a submission for durable, eventually delivered upload.
type Enqueuer interface {
	Enqueue(ctx context.Context, s models.Submission) error
}

type LineItemsAPI interface {
	LineItems(ctx context.Context, token string, orderID int64) ([]models.LineItem, error)
}

type Session interface {
	Token(ctx context.Context) (string, error)
	MechanicID(ctx context.Context) (int64, error)
}

type InspectionService struct {
	queue   Enqueuer
	api     LineItemsAPI
	session Session

	now   func() time.Time
	newID func() string
}

func NewInspectionService(queue Enqueuer, api LineItemsAPI, session Session) *InspectionService {
	return &InspectionService{
		queue:   queue,
		api:     api,
		session: session,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Submit validates s, fills the mechanic from the session when missing,
// stamps an id and creation time, and queues it. It returns the queued value.
// It never talks to the network.
func (s *InspectionService) Submit(ctx context.Context, sub models.Submission) (models.Submission, error) {
	if sub.MechanicID == 0 {
		id, err := s.session.MechanicID(ctx)
		if err != nil {
			return models.Submission{}, err
		}
		sub.MechanicID = id
	}
	if err := sub.Validate(); err != nil {
		return models.Submission{}, err
	}

	if sub.SubmissionID == "" {
		sub.SubmissionID = s.newID()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = s.now().UTC()
	}

	if err := s.queue.Enqueue(ctx, sub); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// LineItems fetches the checklist of a work order. Needs connectivity.
func (s *InspectionService) LineItems(ctx context.Context, orderID int64) ([]models.LineItem, error) {
	token, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	return s.api.LineItems(ctx, token, orderID)
}
