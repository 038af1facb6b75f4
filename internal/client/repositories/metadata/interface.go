// Package metadata is the on-device key/value table. The durable submission
// queue, the cached session and cached work orders live here, each under its
// own key.
package metadata

import (
	"context"
	"time"
)

// Well-known keys.
const (
	KeyPendingInspections = "pending-inspections"
	KeyAccessToken        = "access-token"
	KeyMechanicID         = "mechanic-id"

	// PrefixWorkOrders namespaces per-mechanic work order lists,
	// e.g. "work-orders/12".
	PrefixWorkOrders = "work-orders/"
)

// Entry is a stored value with the time it was last written.
type Entry struct {
	Value     []byte
	UpdatedAt time.Time
}

// Repository stores opaque values by key. Get and Lookup return nil for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Lookup(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}
