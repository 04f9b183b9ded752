package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pushkit/pushkit/component"
	"github.com/pushkit/pushkit/config"
	"github.com/pushkit/pushkit/logger"
	"github.com/pushkit/pushkit/observability"
	"github.com/pushkit/pushkit/server"
	"github.com/pushkit/pushkit/sse"
	"github.com/pushkit/pushkit/version"
)

const serviceName = "pushkit"

func main() {
	configFile := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		info := version.Get()
		fmt.Printf("%s %s (%s, built %s)\n", serviceName, info.Version, info.GitCommit, info.BuildTime)
		return
	}

	if err := run(*configFile); err != nil {
		logger.Fatal("Service failed", logger.Fields(
			logger.FieldError, err.Error(),
		))
	}
}

func run(configFile string) error {
	var cfg config.ServiceConfig
	var loadOpts []config.LoaderOption
	if configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(configFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, loadOpts...); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(cfg.Logging)
	log := logger.New(&cfg.Logging, cfg.Service)
	logger.SetGlobalLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	streamOpts := cfg.Stream.Options()
	if cfg.Observability.Enabled {
		mp, err := observability.InitMeter(ctx, cfg.Service, cfg.Observability)
		if err != nil {
			return fmt.Errorf("initializing meter: %w", err)
		}
		defer mp.Shutdown(context.Background())

		tp, err := observability.InitTracer(ctx, cfg.Service, cfg.Observability)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
		defer tp.Shutdown(context.Background())

		metrics, err := observability.NewStreamMetrics(observability.Meter(cfg.Service))
		if err != nil {
			return fmt.Errorf("creating stream metrics: %w", err)
		}
		streamOpts = append(streamOpts, sse.WithMetrics(metrics))
	}

	streamOpts = append(streamOpts, sse.WithCloseCallback(func(id sse.Identity) {
		log.Info("Stream client disconnected", logger.Fields(
			logger.FieldChannel, id.Channel,
			logger.FieldClient, id.Client,
			logger.FieldBrowser, id.Browser,
		))
	}))

	stream := sse.NewComponent("/events", streamOpts...)
	srv := server.New(cfg.Server, log)

	registry := component.NewRegistry()
	registry.Register(stream)
	registry.Register(srv)

	srv.ApplyDefaults(cfg.Service, registry.HealthAll)
	registerRoutes(srv.GinEngine(), stream.Hub())

	if err := registry.StartAll(ctx); err != nil {
		return fmt.Errorf("starting components: %w", err)
	}
	for _, d := range registry.Descriptions() {
		log.Info("Component ready", logger.Fields(
			"name", d.Name,
			"type", d.Type,
			"details", d.Details,
		))
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")
	registry.StopAll(context.Background())
	return nil
}
