// Package httpapi exposes the backend's JSON API used by mechanic devices:
// login, inspection submission, work order line items and photo upload URLs.
// Prometheus metrics are served on /metrics.
package httpapi
