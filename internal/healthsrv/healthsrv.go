// Package healthsrv exposes the optional admin gRPC health surface: the
// standard grpc.health.v1.Health service, reporting NOT_SERVING during
// graph construction and SERVING once the dispatcher's main loop starts.
// It is independent of the named-pipe protocol; disabling it changes no
// other behavior.
package healthsrv

import (
	"fmt"
	"net"

	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"cammini/internal/phase"
	"cammini/pkg/logger"
	"cammini/pkg/telemetry"
)

// Server wraps a grpc.Server exposing only the health service, with its
// serving status driven by the process phase indicator.
type Server struct {
	grpcServer  *grpc.Server
	health      *health.Server
	serviceName string
	indicator   *phase.Indicator
	lastPhase   int32
}

// New builds a health server for serviceName, its status initialized to
// NOT_SERVING. Call Sync after each phase transition to publish the new
// status, and Serve to start accepting connections.
func New(serviceName string, indicator *phase.Indicator) *Server {
	unaryChain := grpc.ChainUnaryInterceptor(
		grpc_recovery.UnaryServerInterceptor(),
		telemetry.UnaryServerInterceptor(),
		loggingUnaryInterceptor(),
	)
	streamChain := grpc.ChainStreamInterceptor(
		grpc_recovery.StreamServerInterceptor(),
		telemetry.StreamServerInterceptor(),
		loggingStreamInterceptor(),
	)

	s := grpc.NewServer(unaryChain, streamChain)
	h := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, h)
	h.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	return &Server{
		grpcServer:  s,
		health:      h,
		serviceName: serviceName,
		indicator:   indicator,
		lastPhase:   phase.Construction,
	}
}

// Sync publishes the current phase indicator value as a health status.
// Cheap and idempotent; safe to call from any goroutine that just
// performed a phase transition.
func (s *Server) Sync() {
	p := s.indicator.Get()
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if p == phase.Serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(s.serviceName, status)
	s.lastPhase = p
}

// Serve listens on port and blocks until the listener fails or the server
// is stopped.
func (s *Server) Serve(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("health server listen: %w", err)
	}
	logger.Info("starting admin health service", "port", port)
	return s.grpcServer.Serve(lis)
}

// Stop stops the gRPC server immediately.
func (s *Server) Stop() {
	s.grpcServer.Stop()
}

// GracefulStop stops the gRPC server once in-flight RPCs complete.
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
