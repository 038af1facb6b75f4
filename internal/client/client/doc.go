// Package client contains the device side plumbing shared by the CLI and the
// sync pipeline.
//
// # Backend API
//
// HTTPClient talks to the DVI backend's JSON API: mechanic login, line item
// lookup, inspection submission and presigned photo uploads. Requests that
// need a session take the bearer token explicitly. Transport failures are
// reported as ErrUnavailable; non-2xx responses as *StatusError, which
// unwraps to ErrUnauthorized, ErrBadRequest, ErrNotFound or ErrUnavailable.
//
// # Local database
//
// InitDatabase opens the on-device SQLite file and applies the embedded goose
// migrations (see RunMigrations).
package client
