// Package grpc runs the backend's gRPC endpoint. It serves the standard
// health service that devices probe to decide whether they are online.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/dvi/internal/logging"
)

// Checker reports whether the backend can accept submissions, e.g. a
// database ping. A nil Checker means always serving.
type Checker func(ctx context.Context) error

type GRPCServer struct {
	address       string
	logger        logging.Logger
	health        *health.Server
	check         Checker
	checkInterval time.Duration
}

func NewGRPCServer(a string, l logging.Logger, check Checker, checkInterval time.Duration) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		health:        health.NewServer(),
		check:         check,
		checkInterval: checkInterval,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	// registers service
	healthpb.RegisterHealthServer(srv, s.health)

	s.refresh(ctx)
	if s.check != nil && s.checkInterval > 0 {
		go s.watch(ctx)
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gPRC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *GRPCServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh sets the overall serving status ("" service) from the checker.
func (s *GRPCServer) refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.check != nil {
		if err := s.check(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn(ctx, "health check failed", "err", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
}
