// Package queue persists inspection submissions that have not yet been
// accepted by the backend. The whole queue is one JSON array stored under a
// single key; an empty queue is represented by the key being absent.
package queue

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/dvi/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dvi/internal/logging"
	"github.com/dmitrijs2005/dvi/internal/models"
)

type Store interface {
	GetQueue(ctx context.Context) ([]models.Submission, error)
	SetQueue(ctx context.Context, items []models.Submission) error
	Enqueue(ctx context.Context, s models.Submission) error
}

// KVStore keeps the queue in the client metadata table.
type KVStore struct {
	repo   metadata.Repository
	key    string
	logger logging.Logger
}

func NewKVStore(repo metadata.Repository, logger logging.Logger) *KVStore {
	return &KVStore{repo: repo, key: metadata.KeyPendingInspections, logger: logger}
}

// GetQueue returns the queued submissions oldest first. It never returns a
// nil slice on success.
func (s *KVStore) GetQueue(ctx context.Context) ([]models.Submission, error) {
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, &StorageError{Op: "read", Err: err}
	}
	if len(raw) == 0 {
		return []models.Submission{}, nil
	}

	var items []models.Submission
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn(ctx, "discarding unreadable queue blob", "key", s.key, "err", err)
		return []models.Submission{}, nil
	}
	if items == nil {
		items = []models.Submission{}
	}
	return items, nil
}

// SetQueue replaces the stored queue. An empty list removes the key.
func (s *KVStore) SetQueue(ctx context.Context, items []models.Submission) error {
	if len(items) == 0 {
		if err := s.repo.Delete(ctx, s.key); err != nil {
			return &StorageError{Op: "clear", Err: err}
		}
		return nil
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return &StorageError{Op: "encode", Err: err}
	}
	if err := s.repo.Set(ctx, s.key, raw); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}

// Enqueue appends s to the tail. Callers serialize writers.
func (s *KVStore) Enqueue(ctx context.Context, sub models.Submission) error {
	items, err := s.GetQueue(ctx)
	if err != nil {
		return err
	}
	return s.SetQueue(ctx, append(items, sub))
}
