package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jobly-api/jobly/internal/api"
	"github.com/jobly-api/jobly/internal/jobs"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the jobs HTTP API",
	Long: `Start the HTTP API.

Routes:
  POST   /jobs          Create a job
  GET    /jobs          List jobs (minSalary, hasEquity, title)
  GET    /jobs/{id}     Get a job
  PATCH  /jobs/{id}     Partially update a job
  DELETE /jobs/{id}     Delete a job
  GET    /healthz       Health check
  GET    /metrics       Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, factory, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		logger, err := api.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return err
		}

		eng, err := connectEngine(ctx, cfg)
		if err != nil {
			return err
		}
		defer eng.Close()

		repo := jobs.NewRepository(eng)
		if cfg.Journal.Enabled {
			journalLogger, err := factory.CreateJournalLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize journal: %w", err)
			}
			repo.WithJournal(journalLogger)
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		server := api.NewServer(repo, logger, registry).WithPinger(eng)
		server.Metrics().SampleBuildInfo()

		return run(ctx, logger, &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}, cfg.ShutdownGrace())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

// run serves until ctx is done, then shuts down within grace
func run(ctx context.Context, logger *slog.Logger, srv *http.Server, grace time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("grace", grace))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
