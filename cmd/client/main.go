package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/dvi/internal/buildinfo"
	"github.com/dmitrijs2005/dvi/internal/client/cli"
	"github.com/dmitrijs2005/dvi/internal/client/config"
	"github.com/dmitrijs2005/dvi/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()

	// Logs go to the rotated file when configured; otherwise only warnings
	// reach stderr so they do not drown the REPL.
	var w io.Writer = os.Stderr
	level := slog.LevelWarn
	if cfg.LogFile != "" {
		rf := logging.RotatingFile(cfg.LogFile, cfg.LogMaxAgeDays)
		defer rf.Close()
		w = rf
		level = slog.LevelInfo
	}
	logger := logging.NewTextLogger(w, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
