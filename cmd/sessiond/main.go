package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/token"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; the environment is used when empty")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logOpts = append(logOpts, logger.WithLevel(level))
	} else if cfg.Session.ShowLogs {
		logOpts = append(logOpts, logger.WithLevel(slog.LevelDebug))
	}
	log := logger.New(logOpts...)
	slog.SetDefault(log)

	be, err := openStore(ctx, cfg.Session.Store, log)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := be.close(closeCtx); err != nil {
			log.Error("failed to close session store", logger.Error(err))
		}
	}()

	issuer, err := token.NewIssuer(cfg.Session.Secret, token.WithIssuer(cfg.Name))
	if err != nil {
		return err
	}

	svc, err := session.NewFromConfig(cfg.Session, be.store, issuer, session.WithLogger(log))
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "session service configured",
		slog.String("store", be.kind),
		logger.Duration(svc.TTL()),
		slog.Bool("show_logs", cfg.Session.ShowLogs),
		slog.Bool("create_route", cfg.Routes.IssuerKey != ""),
		slog.Any("editable_paths", cfg.Routes.EditablePaths),
	)

	router := newRouter(svc, log, map[string]httpserver.Check{"session_store": be.ready}, cfg.Routes)
	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))

	return srv.Run(ctx, router)
}
