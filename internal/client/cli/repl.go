package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Submit(ctx context.Context) error
	WorkOrders(ctx context.Context) error
	Mechanics(ctx context.Context) error
	Status(ctx context.Context) error
	Sync(ctx context.Context) error
}

// runREPL reads commands from reader and dispatches them to a until EOF or
// "exit".
//
//	Not logged in:
//	  - help           show available commands
//	  - login          authenticate with mechanic id and PIN
//	  - mechanics      look up mechanic ids by company
//	  - status         show queued inspections
//	  - exit | quit    leave the program
//
//	Logged in, additionally:
//	  - workorders     list open work orders (cached copy when offline)
//	  - submit         record an inspection and queue it for delivery
//	  - sync           try to deliver queued inspections now
//	  - logout         forget the session (queued inspections are kept)
//
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("dvi %s> ", statusFn()))
		line, rerr := reader.ReadString('\n')
		if rerr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: workorders, submit, status, sync, logout, exit")
			} else {
				printlnFn("Available commands: login, mechanics, status, exit")
			}

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "submit":
			if !a.isLoggedIn(ctx) {
				printlnFn("Please log in first")
				continue
			}
			err = a.Submit(ctx)

		case "workorders", "wo":
			if !a.isLoggedIn(ctx) {
				printlnFn("Please log in first")
				continue
			}
			err = a.WorkOrders(ctx)

		case "mechanics":
			err = a.Mechanics(ctx)

		case "status", "s":
			err = a.Status(ctx)

		case "sync":
			err = a.Sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
