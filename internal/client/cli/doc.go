// Package cli provides the interactive DVI command-line client used by
// mechanics on the shop floor.
//
// App wires the local SQLite database, the durable submission queue, the
// connectivity monitor and the sync engine, then runs a REPL. Inspections are
// always queued first and delivered when the backend is reachable; the prompt
// shows the mechanic, the connectivity mode and the number of inspections
// still waiting. Sending SIGCONT (resuming a stopped process) triggers a
// delivery attempt, as does regaining connectivity.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
