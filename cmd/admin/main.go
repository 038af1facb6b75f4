// Command admin registers mechanics in the backend database.
//
//	admin -d <dsn> -name "Sam Lee" [-company 3] [-pin 1234]
//
// The PIN is prompted for when -pin is omitted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/dvi/internal/flagx"
	"github.com/dmitrijs2005/dvi/internal/logging"
	"github.com/dmitrijs2005/dvi/internal/server"
	"github.com/dmitrijs2005/dvi/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	var name, pin string
	var company int64
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	fs.StringVar(&name, "name", "", "mechanic display name")
	fs.StringVar(&pin, "pin", "", "mechanic PIN (prompted when empty)")
	fs.Int64Var(&company, "company", 0, "company id the mechanic works for")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-name", "-pin", "-company"}))

	if name == "" {
		log.Fatal("-name is required")
	}

	if pin == "" {
		fmt.Print("PIN: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			log.Fatalf("read pin: %v", err)
		}
		pin = string(b)
	}

	ctx := context.Background()
	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	m, err := app.Auth().RegisterMechanic(ctx, name, company, []byte(pin))
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("registered mechanic #%d (%s)\n", m.ID, m.Name)
}
