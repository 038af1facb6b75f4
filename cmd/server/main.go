package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/dvi/internal/buildinfo"
	"github.com/dmitrijs2005/dvi/internal/logging"
	"github.com/dmitrijs2005/dvi/internal/server"
	"github.com/dmitrijs2005/dvi/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	var w io.Writer = os.Stdout
	if cfg.LogFile != "" {
		rf := logging.RotatingFile(cfg.LogFile, cfg.LogMaxAgeDays)
		defer rf.Close()
		w = logging.Tee(os.Stdout, rf)
	}
	logger := logging.NewJSONLogger(w, slog.LevelInfo)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
