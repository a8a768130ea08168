package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/cretz/sandboxd/admission"
	"github.com/cretz/sandboxd/config"
	"github.com/cretz/sandboxd/executor"
	"github.com/cretz/sandboxd/httpapi"
	"github.com/cretz/sandboxd/metrics"
	"github.com/cretz/sandboxd/orchestrator"
	"github.com/cretz/sandboxd/runtime"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Start the sandbox HTTP server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	return cmd
}

func runServe(ctx context.Context) error {
	cfg := config.Load()

	runner, err := executor.New()
	if err != nil {
		return fmt.Errorf("initializing runner: %w", err)
	}

	reg := runtime.NewRegistry(cfg)
	m := metrics.New(prometheus.DefaultRegisterer)
	adm := admission.New(cfg.Server.MaxConcurrentRequests, cfg.Server.MaxQueueSize, m)
	orch := orchestrator.New(cfg, reg, adm, runner, m)
	srv := httpapi.NewServer(orch, reg)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Printf("sandboxd listening on %v", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-serveErrCh:
		return fmt.Errorf("serving: %w", err)
	case <-sigCh:
		log.Printf("termination signal received, shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Printf("sandboxd stopped")
		return nil
	}
}
