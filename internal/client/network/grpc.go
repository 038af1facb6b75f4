package network

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCHealthProber asks the backend's standard gRPC health service whether
// it is serving.
type GRPCHealthProber struct {
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
	service string
}

func NewGRPCHealthProber(addr string) (*GRPCHealthProber, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial health endpoint %s: %w", addr, err)
	}
	return &GRPCHealthProber{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

func (p *GRPCHealthProber) Probe(ctx context.Context) error {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: p.service})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("health status %s", resp.GetStatus())
	}
	return nil
}

func (p *GRPCHealthProber) Close() error {
	return p.conn.Close()
}
