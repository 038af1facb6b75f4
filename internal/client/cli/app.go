package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/dvi/internal/client/client"
	"github.com/dmitrijs2005/dvi/internal/client/config"
	"github.com/dmitrijs2005/dvi/internal/client/network"
	"github.com/dmitrijs2005/dvi/internal/client/queue"
	"github.com/dmitrijs2005/dvi/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dvi/internal/client/services"
	"github.com/dmitrijs2005/dvi/internal/client/status"
	"github.com/dmitrijs2005/dvi/internal/client/syncer"
	"github.com/dmitrijs2005/dvi/internal/client/uploader"
	"github.com/dmitrijs2005/dvi/internal/filex"
	"github.com/dmitrijs2005/dvi/internal/logging"
	"github.com/dmitrijs2005/dvi/internal/models"
)

const databaseFile = "dvi.db"

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type authService interface {
	Login(ctx context.Context, mechanicID int64, pin []byte) error
	Logout(ctx context.Context) error
	MechanicID(ctx context.Context) (int64, error)
}

type inspectionService interface {
	Submit(ctx context.Context, s models.Submission) (models.Submission, error)
	LineItems(ctx context.Context, orderID int64) ([]models.LineItem, error)
}

type workOrderService interface {
	List(ctx context.Context) ([]models.WorkOrder, time.Time, error)
	Companies(ctx context.Context) ([]models.Company, error)
	Mechanics(ctx context.Context, companyID int64) ([]models.MechanicInfo, error)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	auth        authService
	inspections inspectionService
	workOrders  workOrderService
	engine      *syncer.Engine
	surface     *status.Surface
	monitor     network.Monitor
	probe       *network.ProbeMonitor
	closers     []io.Closer
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the local database and wires the sync pipeline.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, databaseFile))
	if err != nil {
		logger.Error(ctx, "error initializing database", "err", err)
		return nil, err
	}

	a := &App{
		config:  c,
		logger:  logger,
		closers: []io.Closer{db},
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	if c.HealthEndpointAddr == "" {
		a.monitor = network.NewStaticMonitor(true)
	} else {
		prober, err := network.NewGRPCHealthProber(c.HealthEndpointAddr)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.closers = append(a.closers, prober)
		a.probe = network.NewProbeMonitor(prober, c.OnlineCheckInterval, c.ProbeTimeout, logger)
		a.monitor = a.probe
	}

	a.wire(db, client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout))
	return a, nil
}

func (a *App) wire(db *sql.DB, api *client.HTTPClient) {
	auth := services.NewAuthService(api, db)
	repo := metadata.NewSQLiteRepository(db)
	store := queue.NewKVStore(repo, a.logger)
	up := uploader.NewHTTPUploader(api, auth, a.logger)

	a.auth = auth
	a.engine = syncer.NewEngine(store, a.monitor, up, a.logger)
	a.inspections = services.NewInspectionService(a.engine, api, auth)
	a.workOrders = services.NewWorkOrderService(api, auth, repo, a.logger)
	a.surface = status.NewSurface(a.engine)
}

// Run starts connectivity probing and the sync engine, then blocks in the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.probe != nil {
		go a.probe.Run(ctx)
	}

	if err := a.engine.Start(ctx); err != nil {
		return fmt.Errorf("start sync engine: %w", err)
	}
	defer a.engine.Stop()

	stopWatch := a.surface.Watch(a.out)
	defer stopWatch()

	stopResume := watchResume(ctx, a.engine.Resume)
	defer stopResume()

	fmt.Fprintln(a.out, "Welcome to DVI (type 'help' for commands)")

	// The REPL blocks on stdin; do not let it hold up a signal shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.reader)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		a.logger.Info(ctx, "shutting down", "pending", a.surface.Pending())
	}
	return nil
}

// Close releases the database and the health connection.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}

func (a *App) mode() Mode {
	if a.monitor.Current() {
		return ModeOnline
	}
	return ModeOffline
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, err := a.auth.MechanicID(ctx)
	return err == nil
}

// getStatus renders "(<mechanic> <mode> <badge>)" for the prompt.
func (a *App) getStatus(ctx context.Context) string {
	s := ""
	if id, err := a.auth.MechanicID(ctx); err == nil {
		s = fmt.Sprintf("#%d ", id)
	}
	s += string(a.mode())
	if b := a.surface.Badge(); b != "" {
		s += " " + b
	}
	return "(" + s + ")"
}
