// Package grpc exposes the standard gRPC health service for the booknotes
// process. Its status follows the reachability of the database and Redis.
package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health entry of the booknotes API
const ServiceName = "booknotes.v1.Library"

// Pinger is a dependency whose reachability gates the health status
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthServer owns the gRPC server and its health registry
type HealthServer struct {
	server  *grpc.Server
	health  *health.Server
	deps    map[string]Pinger
	extras  map[string]Pinger
	timeout time.Duration
	logger  *zap.Logger
}

// NewHealthServer registers the health and reflection services
func NewHealthServer(deps map[string]Pinger, logger *zap.Logger) *HealthServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := grpc.NewServer(
		grpc.MaxRecvMsgSize(1024*1024),
	)
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	return &HealthServer{
		server:  s,
		health:  h,
		deps:    deps,
		extras:  map[string]Pinger{},
		timeout: 2 * time.Second,
		logger:  logger.Named("health"),
	}
}

// Server returns the underlying gRPC server
func (h *HealthServer) Server() *grpc.Server {
	return h.server
}

// AddOptional registers a dependency the service can run without. It is
// reported as ServiceName + "." + name and never affects the overall status.
// Call before serving.
func (h *HealthServer) AddOptional(name string, dep Pinger) {
	h.extras[name] = dep
}

// Check pings every dependency and publishes the result for both the
// overall ("") and the ServiceName entries.
func (h *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for name, dep := range h.deps {
		if !h.ping(ctx, name, dep) {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	for name, dep := range h.extras {
		sub := healthpb.HealthCheckResponse_SERVING
		if !h.ping(ctx, name, dep) {
			sub = healthpb.HealthCheckResponse_NOT_SERVING
		}
		h.health.SetServingStatus(ServiceName+"."+name, sub)
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

func (h *HealthServer) ping(ctx context.Context, name string, dep Pinger) bool {
	pingCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := dep.Ping(pingCtx); err != nil {
		h.logger.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
		return false
	}
	return true
}

// Watch re-checks every interval until ctx is done
func (h *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	h.Check(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Shutdown marks everything NOT_SERVING and drains in-flight calls
func (h *HealthServer) Shutdown() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
