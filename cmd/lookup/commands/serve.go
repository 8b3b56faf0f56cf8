package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/WessleyAI/vehicle-lookup/cmd/lookup/web"
	"github.com/WessleyAI/vehicle-lookup/engine/events"
	"github.com/WessleyAI/vehicle-lookup/engine/wizard"
	"github.com/WessleyAI/vehicle-lookup/pkg/metrics"
	"github.com/WessleyAI/vehicle-lookup/pkg/resilience"
	"github.com/WessleyAI/vehicle-lookup/pkg/tracing"
)

// upstreamService is the grpc health service name that follows the vPIC
// breaker. The empty service name reports the process itself.
const upstreamService = "vpic"

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser wizard and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.OutOrStdout(), a.cfg.LogLevel)
			slog.SetDefault(logger)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, logger)
		},
	}
}

func (a *app) serve(ctx context.Context, logger *slog.Logger) error {
	cfg := a.cfg

	// --- Tracing ---
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Endpoint:    cfg.OTel.Endpoint,
		ServiceName: cfg.OTel.ServiceName,
		Insecure:    cfg.OTel.Insecure,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutCtx); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}()

	// --- Health reporting (optional gRPC) ---
	var healthSrv *health.Server
	if cfg.GRPCHealthPort != "" {
		healthSrv = health.NewServer()
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		healthSrv.SetServingStatus(upstreamService, healthpb.HealthCheckResponse_SERVING)
	}

	// --- vPIC client ---
	reg := metrics.New()
	breakerOpen := reg.Gauge("vpic_breaker_open", "1 while the vPIC circuit breaker is open")
	client, breaker, err := a.newVPICClient(reg, func(from, to resilience.State) {
		logger.Warn("vpic circuit breaker", "from", from.String(), "to", to.String())
		if to == resilience.StateOpen {
			breakerOpen.Set(1)
		} else {
			breakerOpen.Set(0)
		}
		if healthSrv != nil {
			healthSrv.SetServingStatus(upstreamService, servingStatus(to))
		}
	})
	if err != nil {
		return err
	}

	// --- Events (optional NATS) ---
	var publisher events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.OTel.ServiceName))
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Drain()
		publisher = events.NewNATSPublisher(nc, "")
		logger.Info("publishing lookup events", "nats_url", cfg.NATSURL, "subject_prefix", events.DefaultSubjectPrefix)
	}

	// --- HTTP server ---
	srvWeb, err := web.New(web.Options{
		Loader:      wizard.NewLoader(client, logger, publisher),
		Logger:      logger,
		Metrics:     reg,
		Breaker:     breaker,
		CORSOrigin:  cfg.CORSOrigin,
		ServiceName: cfg.OTel.ServiceName,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srvWeb.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.VPIC.Timeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Bind the health port first so a busy port fails before HTTP is up.
	var healthLis net.Listener
	if healthSrv != nil {
		healthLis, err = net.Listen("tcp", ":"+cfg.GRPCHealthPort)
		if err != nil {
			return fmt.Errorf("grpc health listen: %w", err)
		}
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 2)
	go func() {
		logger.Info("lookup server starting", "port", cfg.Port, "vpic_base_url", client.BaseURL())
		errCh <- srv.ListenAndServe()
	}()

	var grpcSrv *grpc.Server
	if healthSrv != nil {
		grpcSrv = grpc.NewServer()
		healthpb.RegisterHealthServer(grpcSrv, healthSrv)
		go func() {
			logger.Info("grpc health server starting", "port", cfg.GRPCHealthPort)
			errCh <- grpcSrv.Serve(healthLis)
		}()
	}

	var runErr error
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	if grpcSrv != nil {
		healthSrv.Shutdown()
		grpcSrv.GracefulStop()
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func servingStatus(s resilience.State) healthpb.HealthCheckResponse_ServingStatus {
	if s == resilience.StateOpen {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}

