package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/janisto/repo-summary/internal/http/router"
	statshandler "github.com/janisto/repo-summary/internal/http/v1/stats"
	"github.com/janisto/repo-summary/internal/platform/config"
	applog "github.com/janisto/repo-summary/internal/platform/logging"
	githubsvc "github.com/janisto/repo-summary/internal/service/github"
	statssvc "github.com/janisto/repo-summary/internal/service/stats"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(context.Background(), "invalid configuration", err)
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		applog.LogWarn(context.Background(), "ignoring LOG_LEVEL", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		applog.LogError(context.Background(), "server failed", err)
		stop()
		_ = applog.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	srv := newServer(cfg, newHandler(cfg))
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return serve(ctx, srv, ln)
}

func newHandler(cfg config.Config) http.Handler {
	httpClient := githubsvc.NewHTTPClient(context.Background(), cfg.GitHubToken, cfg.GitHubTimeout)
	client := githubsvc.NewClient(httpClient,
		githubsvc.WithBaseURL(cfg.GitHubBaseURL),
		githubsvc.WithMaxPages(cfg.MaxPages),
		githubsvc.WithUserAgent("repo-summary/"+Version),
	)
	return router.New(Version, statssvc.NewAggregator(client))
}

func newServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		// Summaries give up first so the 504 body still reaches the client.
		WriteTimeout:   statshandler.SummaryTimeout + 30*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 64 << 10, // 64 KB
	}
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	applog.LogInfo(context.Background(), "server exited")
	return nil
}
