package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/dvi/internal/client/client"
	"github.com/dmitrijs2005/dvi/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dvi/internal/logging"
	"github.com/dmitrijs2005/dvi/internal/models"
)

// DirectoryAPI is the part of the backend client that lists shops, their
// mechanics and work orders.
type DirectoryAPI interface {
	WorkOrders(ctx context.Context, token string, mechanicID int64) ([]models.WorkOrder, error)
	Companies(ctx context.Context) ([]models.Company, error)
	Mechanics(ctx context.Context, companyID int64) ([]models.MechanicInfo, error)
}

// WorkOrderService lists the signed-in mechanic's open orders. The last
// answer is kept per mechanic so the list is still available offline.
type WorkOrderService struct {
	api     DirectoryAPI
	session Session
	cache   metadata.Repository
	logger  logging.Logger
}

func NewWorkOrderService(api DirectoryAPI, session Session, cache metadata.Repository, logger logging.Logger) *WorkOrderService {
	return &WorkOrderService{api: api, session: session, cache: cache, logger: logger}
}

// List returns the open work orders. cachedAt is zero for a live answer and
// the time of the last successful fetch when the backend was unreachable.
func (s *WorkOrderService) List(ctx context.Context) (orders []models.WorkOrder, cachedAt time.Time, err error) {
	mechanicID, err := s.session.MechanicID(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	token, err := s.session.Token(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	key := metadata.PrefixWorkOrders + strconv.FormatInt(mechanicID, 10)

	orders, err = s.api.WorkOrders(ctx, token, mechanicID)
	if err == nil {
		orders = openOnly(orders)
		if data, merr := json.Marshal(orders); merr != nil {
			s.logger.Warn(ctx, "cannot encode work orders for cache", "err", merr)
		} else if serr := s.cache.Set(ctx, key, data); serr != nil {
			s.logger.Warn(ctx, "cannot cache work orders", "mechanic", mechanicID, "err", serr)
		}
		return orders, time.Time{}, nil
	}
	if !errors.Is(err, client.ErrUnavailable) {
		return nil, time.Time{}, err
	}

	entry, cerr := s.cache.Lookup(ctx, key)
	if cerr != nil || entry == nil {
		if cerr != nil {
			s.logger.Warn(ctx, "cannot read cached work orders", "err", cerr)
		}
		return nil, time.Time{}, err
	}
	if uerr := json.Unmarshal(entry.Value, &orders); uerr != nil {
		return nil, time.Time{}, fmt.Errorf("cached work orders: %w", uerr)
	}
	s.logger.Debug(ctx, "serving cached work orders", "mechanic", mechanicID, "cached_at", entry.UpdatedAt)
	return openOnly(orders), entry.UpdatedAt, nil
}

// Companies lists the shops. Needs connectivity.
func (s *WorkOrderService) Companies(ctx context.Context) ([]models.Company, error) {
	return s.api.Companies(ctx)
}

// Mechanics lists the mechanics of a shop. Needs connectivity.
func (s *WorkOrderService) Mechanics(ctx context.Context, companyID int64) ([]models.MechanicInfo, error) {
	return s.api.Mechanics(ctx, companyID)
}

func openOnly(in []models.WorkOrder) []models.WorkOrder {
	out := make([]models.WorkOrder, 0, len(in))
	for _, w := range in {
		if w.Open() {
			out = append(out, w)
		}
	}
	return out
}
