package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veredicto/veredicto/internal/worker"
)

var (
	runWorkers int
	runOnce    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the continuous verification worker",
	Long: `Run polls the work queue and verifies pending sources with a pool of
concurrent workers. The fact miner runs periodically in the background,
and Prometheus metrics are served when worker.metrics_addr is set.

Interrupting the run lets in-flight claims finish; unprocessed sources
stay queued and are picked up on the next start.

Example:
  veredicto run
  veredicto run --workers 8 --once`,
	Args: cobra.NoArgs,
	RunE: runLoop,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "worker count (default from config)")
	runCmd.Flags().BoolVar(&runOnce, "once", false, "drain the current backlog and exit")
}

func runLoop(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers := runWorkers
	if workers <= 0 {
		workers = a.cfg.Worker.Count
	}
	if workers <= 0 {
		workers = 4
	}

	if addr := a.cfg.Worker.MetricsAddr; addr != "" {
		go serveMetrics(ctx, a, addr)
	}
	if !runOnce {
		go mineLoop(ctx, a)
	}

	a.log.Info("verification worker started",
		zap.Int("workers", workers),
		zap.Duration("poll_interval", a.cfg.Worker.PollInterval))

	for {
		batch, err := a.store.PendingSources(workers * 4)
		if err != nil {
			return err
		}

		if len(batch) == 0 {
			if runOnce {
				a.log.Info("backlog drained")
				return nil
			}
			select {
			case <-ctx.Done():
				a.log.Info("shutting down")
				return nil
			case <-time.After(a.cfg.Worker.PollInterval):
				continue
			}
		}

		pool := worker.NewPool(workers)
		pool.Start()
		for _, src := range batch {
			src := src
			pool.Submit(func(context.Context) error {
				_, err := a.pipe.ProcessSource(ctx, src)
				if err != nil {
					return fmt.Errorf("source %s: %w", src.ID, err)
				}
				return nil
			})
		}
		for _, err := range pool.Drain() {
			a.log.Error("source processing failed", zap.Error(err))
		}

		if ctx.Err() != nil {
			a.log.Info("shutting down")
			return nil
		}
	}
}

// mineLoop runs the fact miner on its configured interval.
func mineLoop(ctx context.Context, a *app) {
	interval := a.cfg.Worker.MineInterval
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mined, err := a.miner.MineOnce(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				a.log.Warn("fact mining pass failed", zap.Error(err))
				continue
			}
			if mined > 0 {
				a.log.Info("fact mining pass complete", zap.Int("facts", mined))
			}
		}
	}
}

func serveMetrics(ctx context.Context, a *app, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.log.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Warn("metrics server failed", zap.Error(err))
	}
}
