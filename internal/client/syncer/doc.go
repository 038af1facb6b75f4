// Package syncer owns the offline submission queue at runtime.
//
// An Engine writes every submission to the durable queue first and then, when
// the backend is reachable, drains the queue through an Uploader. A flush pass
// walks a snapshot of the queue oldest first, keeps going past items that
// fail, and rewrites the queue with only the failed items plus anything
// enqueued while the pass was running. At most one pass is in flight.
//
// Flushes are triggered by:
//   - the monitor reporting connected at Start,
//   - a disconnected to connected transition,
//   - Resume (the application coming back to the foreground),
//   - Enqueue while connected,
//   - the end of a pass during which Enqueue was called.
//
// Delivery failures are logged and leave the item queued. Storage failures
// are returned to the caller and recorded in State.Err.
package syncer
