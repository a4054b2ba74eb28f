package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dreamware/postboard/internal/api"
	"github.com/dreamware/postboard/internal/config"
	"github.com/dreamware/postboard/internal/monitor"
	"github.com/dreamware/postboard/internal/posts"
	"github.com/dreamware/postboard/internal/server"
	"github.com/dreamware/postboard/internal/users"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("postboard", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	client, err := api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, logger)
	if err != nil {
		return err
	}
	ps, us := posts.NewStore(client, nil, logger), users.NewStore(client, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := new(sync.WaitGroup)
	loadInitial(ctx, wg, ps, us)

	srv := server.New(ps, us, logger)
	if cfg.ProbeInterval > 0 {
		srv.WithRemoteHealth(startMonitor(ctx, wg, client, cfg, logger))
	}

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("postboard listening", "addr", cfg.Listen, "api", cfg.APIBaseURL)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Info("signal caught", "sig", sig)
	case err := <-listenErr:
		if err != nil {
			return err
		}
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	wg.Wait()
	logger.Info("postboard stopped")
	return nil
}

// startMonitor probes the API the stores use until ctx is canceled.
func startMonitor(ctx context.Context, wg *sync.WaitGroup, client *api.Client, cfg config.Config, logger *slog.Logger) *monitor.Monitor {
	m := monitor.New(client, cfg.ProbeInterval, cfg.RequestTimeout, logger)
	m.SetOnUnhealthy(func(h monitor.Health) {
		logger.Error("remote api unreachable, fetches will fail until it recovers", "lastError", h.LastError)
	})
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.Run(ctx)
	}()
	return m
}

// loadInitial fetches users and posts once in the background. Failures are
// recorded in each store's status and logged there.
func loadInitial(ctx context.Context, wg *sync.WaitGroup, ps *posts.Store, us *users.Store) {
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = us.FetchUsers(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = ps.FetchPosts(ctx)
	}()
}
