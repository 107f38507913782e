package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-sdn/pkg/api"
	"github.com/dd0wney/cluso-sdn/pkg/audit"
	"github.com/dd0wney/cluso-sdn/pkg/auth"
	"github.com/dd0wney/cluso-sdn/pkg/config"
	"github.com/dd0wney/cluso-sdn/pkg/controller"
	"github.com/dd0wney/cluso-sdn/pkg/events"
	"github.com/dd0wney/cluso-sdn/pkg/logging"
	"github.com/dd0wney/cluso-sdn/pkg/metrics"
	"github.com/dd0wney/cluso-sdn/pkg/server"
	sdntls "github.com/dd0wney/cluso-sdn/pkg/tls"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults apply when empty)")
	scenarioPath := flag.String("scenario", "", "Scenario file applied at startup (overrides scenario.path)")
	issueToken := flag.String("issue-token", "", "Print a token for subject:role and exit")
	flag.Parse()

	// Process lifecycle goes to slog; components log through pkg/logging
	lifecycle := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		lifecycle.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *scenarioPath != "" {
		cfg.Scenario.Path = *scenarioPath
	}

	if *issueToken != "" {
		if err := printToken(cfg, *issueToken); err != nil {
			lifecycle.Error("failed to issue token", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, *configPath, lifecycle); err != nil {
		lifecycle.Error("controller exited with error", "error", err)
		os.Exit(1)
	}
}

// printToken issues a signed token for "subject:role"
func printToken(cfg *config.Config, spec string) error {
	subject, role, ok := strings.Cut(spec, ":")
	if !ok {
		return fmt.Errorf("issue-token: expected subject:role, got %q", spec)
	}
	manager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	token, err := manager.GenerateToken(subject, role)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func run(cfg *config.Config, configPath string, lifecycle *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel())
	logging.SetDefaultLogger(logger)

	registry := metrics.DefaultRegistry()
	auditLog := audit.NewLogger(cfg.Audit.BufferSize)
	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Shutdown()

	c := controller.New(
		controller.WithLogger(logger),
		controller.WithMetrics(registry),
		controller.WithEvents(bus),
		controller.WithAudit(auditLog),
		controller.WithLimits(cfg.Routing.Limits()),
	)

	if cfg.Events.FeedAddr != "" {
		feed, err := events.NewFeed(cfg.Events.FeedAddr)
		if err != nil {
			return fmt.Errorf("event feed: %w", err)
		}
		defer feed.Close()
		go func() {
			err := feed.Forward(ctx, bus, func(err error) {
				logger.Warn("event feed send failed", logging.Error(err))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("event feed stopped", logging.Error(err))
			}
		}()
		lifecycle.Info("event feed publishing", "addr", feed.Addr())
	}

	if cfg.Scenario.Path != "" {
		scenario, err := config.LoadScenario(cfg.Scenario.Path)
		if err != nil {
			return err
		}
		result, err := c.As("scenario").Apply(scenario)
		if err != nil {
			return fmt.Errorf("apply scenario %s: %w", cfg.Scenario.Path, err)
		}
		lifecycle.Info("scenario applied",
			"name", scenario.Name,
			"switches", len(c.ListSwitches()),
			"flows", len(result.FlowIDs),
			"reconfigurations", len(result.Reconfigurations),
		)
	}

	var validator auth.TokenValidator
	if cfg.Auth.Enabled {
		manager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		if err != nil {
			return err
		}
		validator = manager
	}

	apiServer, err := api.NewServer(api.Options{
		Controller: c,
		Config:     cfg,
		Logger:     logger,
		Metrics:    registry,
		Audit:      auditLog,
		Validator:  validator,
	})
	if err != nil {
		return err
	}
	go apiServer.RunMetricsUpdater(ctx, 10*time.Second)

	tlsConfig, err := sdntls.Load(cfg.Server.TLS)
	if err != nil {
		return err
	}
	gs := server.NewGracefulServer(cfg.Server, apiServer.Handler(), logger)
	gs.SetTLSConfig(tlsConfig)
	gs.SetReloadFunc(func() error {
		reloaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger.SetLevel(reloaded.LogLevel())
		lifecycle.Info("configuration reloaded", "log_level", reloaded.LogLevel().String())
		return nil
	})
	go gs.WatchReload(ctx)

	lifecycle.Info("SDN controller starting",
		"addr", cfg.Server.ListenAddr,
		"tls", tlsConfig != nil,
		"auth", cfg.Auth.Enabled,
		"layout", cfg.Visualization.Layout,
	)
	if err := gs.Run(ctx); err != nil {
		return err
	}
	lifecycle.Info("SDN controller stopped")
	return nil
}
